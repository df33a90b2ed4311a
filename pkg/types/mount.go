package types

import (
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"
)

// MountPointInfo is the persisted identity of a mount point. A live mount
// point can be (re)constructed from it by the factory named in FactoryID.
//
// Identity for deduplication purposes is the (Place, ParentID) pair, not the
// ID: two registrations of the same place under the same parent must resolve
// to one stored record.
type MountPointInfo struct {
	ID        string            `json:"id"`
	Place     string            `json:"place"`
	ParentID  string            `json:"parentId,omitempty"`
	FactoryID string            `json:"factory"`
	State     map[string]string `json:"state,omitempty"`
}

// SameLocation reports whether two infos describe the same physical location.
func (m MountPointInfo) SameLocation(other MountPointInfo) bool {
	return m.Place == other.Place && m.ParentID == other.ParentID
}

// MountPoint is a live handle over a physical content source. File and
// directory access goes through the billy filesystem it exposes; mounts are
// read-only from the engine's point of view.
type MountPoint interface {
	// Info returns the persisted record this mount was created from.
	Info() MountPointInfo

	// FS returns the filesystem rooted at the mount.
	FS() billy.Filesystem

	// Close releases resources held by the mount (open archive handles).
	Close() error
}

// MountFactory creates live mount points from their persisted records.
// Factories are registered in the capability registry under their ID.
type MountFactory interface {
	// ID is the stable identifier stored in MountPointInfo.FactoryID.
	ID() string

	// Create instantiates a mount point. parent is the already-resolved
	// parent mount, or nil for root-level mounts.
	Create(info MountPointInfo, parent MountPoint) (MountPoint, error)
}

// FileRef addresses a file inside a mount point by relative place.
type FileRef struct {
	Mount MountPoint
	Place string
}

// Exists reports whether the referenced file is present.
func (f FileRef) Exists() bool {
	info, err := f.Mount.FS().Stat(f.Place)
	return err == nil && !info.IsDir()
}

// Stat returns file metadata for the referenced place.
func (f FileRef) Stat() (fs.FileInfo, error) {
	return f.Mount.FS().Stat(f.Place)
}

// Open opens the referenced file for reading.
func (f FileRef) Open() (io.ReadCloser, error) {
	return f.Mount.FS().Open(f.Place)
}

// ReadAll reads the whole referenced file.
func (f FileRef) ReadAll() ([]byte, error) {
	r, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}
