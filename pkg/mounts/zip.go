package mounts

import (
	"archive/zip"
	"bytes"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/types"
)

// ZipFactoryID is the capability identifier of the archive mount factory.
const ZipFactoryID = "zip"

// ZipFactory creates read-only mount points over zip archives. A root-level
// mount's place is an OS path; a nested mount's place is resolved through
// the parent mount, which covers the archive-inside-directory case.
type ZipFactory struct{}

// ID implements types.MountFactory.
func (f *ZipFactory) ID() string { return ZipFactoryID }

// Create implements types.MountFactory.
func (f *ZipFactory) Create(info types.MountPointInfo, parent types.MountPoint) (types.MountPoint, error) {
	var data []byte
	var err error
	if parent != nil {
		data, err = util.ReadFile(parent.FS(), info.Place)
	} else {
		data, err = os.ReadFile(info.Place)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "read archive %q", info.Place)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMountCreate, "open archive %q", info.Place)
	}

	return &zipMount{info: info, fs: newZipFS(zr, info.Place)}, nil
}

type zipMount struct {
	info types.MountPointInfo
	fs   billy.Filesystem
}

func (z *zipMount) Info() types.MountPointInfo { return z.info }
func (z *zipMount) FS() billy.Filesystem       { return z.fs }

// Close is a no-op: the archive index lives in memory once created.
func (z *zipMount) Close() error { return nil }
