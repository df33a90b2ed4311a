package mounts

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/registry"
	"github.com/arthur-debert/skel/pkg/types"
)

// Manager owns live mount points. It resolves a mount id to a live handle,
// creating it on first demand through the factory named in its persisted
// record, resolving parents first for nested mounts. Live mounts are cached
// by id until Close.
type Manager struct {
	mu         sync.Mutex
	components *registry.Components
	infos      map[string]types.MountPointInfo
	live       map[string]types.MountPoint
	log        zerolog.Logger
}

// NewManager creates a Manager over the given persisted mount records.
func NewManager(components *registry.Components, infos []types.MountPointInfo) *Manager {
	m := &Manager{
		components: components,
		infos:      make(map[string]types.MountPointInfo, len(infos)),
		live:       make(map[string]types.MountPoint),
		log:        logging.GetLogger("mounts"),
	}
	for _, info := range infos {
		m.infos[info.ID] = info
	}
	return m
}

// Demand returns the live mount point for id, creating it if needed.
// An unknown id or factory is a soft not-found outcome for the caller.
func (m *Manager) Demand(id string) (types.MountPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.demandLocked(id, nil)
}

// demandLocked resolves id with m.mu held. seen guards against a parent
// cycle in a corrupted settings document.
func (m *Manager) demandLocked(id string, seen map[string]bool) (types.MountPoint, error) {
	if mp, ok := m.live[id]; ok {
		return mp, nil
	}

	info, ok := m.infos[id]
	if !ok {
		return nil, errors.Newf(errors.ErrMountNotFound, "no mount point info for id %q", id)
	}

	factory, err := m.components.MountFactory(info.FactoryID)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMountNotFound, "mount %q: factory %q not registered", id, info.FactoryID)
	}

	var parent types.MountPoint
	if info.ParentID != "" {
		if seen == nil {
			seen = make(map[string]bool)
		}
		if seen[id] {
			return nil, errors.Newf(errors.ErrMountCreate, "mount %q: parent cycle", id)
		}
		seen[id] = true
		parent, err = m.demandLocked(info.ParentID, seen)
		if err != nil {
			return nil, err
		}
	}

	mp, err := factory.Create(info, parent)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMountCreate, "mount %q at %q", id, info.Place)
	}

	m.log.Debug().Str("id", id).Str("place", info.Place).Str("factory", info.FactoryID).Msg("mount point created")
	m.live[id] = mp
	return mp, nil
}

// AddInfo registers (or replaces) a persisted mount record in the index.
func (m *Manager) AddInfo(info types.MountPointInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos[info.ID] = info
}

// Info returns the persisted record for id.
func (m *Manager) Info(id string) (types.MountPointInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info, ok := m.infos[id]
	return info, ok
}

// Close releases every live mount point. The manager remains usable;
// subsequent demands re-create mounts.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for id, mp := range m.live {
		if err := mp.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, errors.ErrMountClosed, "closing mount %q", id)
		}
	}
	m.live = make(map[string]types.MountPoint)
	return firstErr
}

// FindInfo searches existing records for one at the same (place, parent)
// location. Mount identity is defined by that pair, not by id; callers must
// reuse a found record instead of persisting a duplicate.
func FindInfo(infos []types.MountPointInfo, place, parentID string) (types.MountPointInfo, bool) {
	probe := types.MountPointInfo{Place: place, ParentID: parentID}
	for _, info := range infos {
		if info.SameLocation(probe) {
			return info, true
		}
	}
	return types.MountPointInfo{}, false
}

// NewDirectoryInfo builds a fresh record for a root-level directory mount.
func NewDirectoryInfo(place string) types.MountPointInfo {
	return types.MountPointInfo{
		ID:        uuid.NewString(),
		Place:     place,
		FactoryID: DirectoryFactoryID,
	}
}

// NewZipInfo builds a fresh record for an archive mount. parentID may be
// empty for archives addressed by OS path.
func NewZipInfo(place, parentID string) types.MountPointInfo {
	return types.MountPointInfo{
		ID:        uuid.NewString(),
		Place:     place,
		ParentID:  parentID,
		FactoryID: ZipFactoryID,
	}
}

// BuiltinFactories returns the mount factories every environment registers.
func BuiltinFactories() []types.MountFactory {
	return []types.MountFactory{
		&DirectoryFactory{},
		&ZipFactory{},
	}
}
