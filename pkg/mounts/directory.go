package mounts

import (
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/types"
)

// DirectoryFactoryID is the capability identifier of the directory mount
// factory, stored in MountPointInfo.FactoryID.
const DirectoryFactoryID = "directory"

// DirectoryFactory creates mount points over plain directories. A root-level
// mount's place is an absolute OS path; a nested mount's place is relative to
// its parent mount.
type DirectoryFactory struct{}

// ID implements types.MountFactory.
func (f *DirectoryFactory) ID() string { return DirectoryFactoryID }

// Create implements types.MountFactory.
func (f *DirectoryFactory) Create(info types.MountPointInfo, parent types.MountPoint) (types.MountPoint, error) {
	if parent != nil {
		sub, err := parent.FS().Chroot(info.Place)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrMountCreate, "chroot %q in parent mount", info.Place)
		}
		return &dirMount{info: info, fs: sub}, nil
	}

	stat, err := os.Stat(info.Place)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "stat %q", info.Place)
	}
	if !stat.IsDir() {
		return nil, errors.Newf(errors.ErrMountCreate, "%q is not a directory", info.Place)
	}
	return &dirMount{info: info, fs: osfs.New(info.Place)}, nil
}

type dirMount struct {
	info types.MountPointInfo
	fs   billy.Filesystem
}

func (d *dirMount) Info() types.MountPointInfo { return d.info }
func (d *dirMount) FS() billy.Filesystem       { return d.fs }
func (d *dirMount) Close() error               { return nil }
