package settings

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/mounts"
	"github.com/arthur-debert/skel/pkg/types"
)

// document is the persisted shape of the settings store. The whole document
// is serialized on every mutating operation.
type document struct {
	ProbingPaths []string               `json:"probingPaths"`
	MountPoints  []types.MountPointInfo `json:"mountPoints"`
}

// Store is the durable settings document: filesystem probing paths and known
// mount point records. Loaded once per Environment load; every mutation
// persists the full document.
type Store struct {
	path               string
	defaultProbingPath string
	loadRetry          RetryPolicy
	persistRetry       RetryPolicy
	doc                document
	log                zerolog.Logger
}

// NewStore creates a Store over the settings file at path. defaultProbingPath
// seeds the probing path list when it is empty after load.
func NewStore(path, defaultProbingPath string, loadRetry, persistRetry RetryPolicy) *Store {
	return &Store{
		path:               path,
		defaultProbingPath: defaultProbingPath,
		loadRetry:          loadRetry,
		persistRetry:       persistRetry,
		log:                logging.GetLogger("settings"),
	}
}

// Load reads the settings document, tolerating transient contention from
// concurrent process instances: reads are retried up to the policy bound and
// the last failure propagates. A missing or empty file is a valid empty
// document, not an error.
func (s *Store) Load() error {
	var data []byte
	err := s.loadRetry.Do(func() error {
		var readErr error
		data, readErr = os.ReadFile(s.path)
		if readErr != nil {
			if os.IsNotExist(readErr) {
				data = nil
				return nil
			}
			return readErr
		}
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, errors.ErrSettingsLoad, "reading settings from %s", s.path)
	}

	doc := document{}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrSettingsLoad, "parsing settings from %s", s.path)
		}
	}
	s.doc = doc

	if len(s.doc.ProbingPaths) == 0 && s.defaultProbingPath != "" {
		s.doc.ProbingPaths = []string{s.defaultProbingPath}
	}

	s.log.Debug().
		Int("probingPaths", len(s.doc.ProbingPaths)).
		Int("mountPoints", len(s.doc.MountPoints)).
		Msg("settings loaded")
	return nil
}

// persist serializes the whole in-memory document atomically.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrSettingsPersist, "serializing settings")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSettingsPersist, "creating settings directory for %s", s.path)
	}
	if err := writeFileAtomic(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSettingsPersist, "writing settings to %s", s.path)
	}
	return nil
}

// AddProbingPath records a filesystem location to scan for template content.
// Adding a path that is already present is a no-op with no persistence call.
// A failed persist triggers reload-and-reapply rather than a blind re-write,
// bounded by the persist retry policy.
func (s *Store) AddProbingPath(p string) error {
	if slices.Contains(s.doc.ProbingPaths, p) {
		s.log.Debug().Str("path", p).Msg("probing path already present")
		return nil
	}

	return s.persistRetry.Do(func() error {
		if !slices.Contains(s.doc.ProbingPaths, p) {
			s.doc.ProbingPaths = append(s.doc.ProbingPaths, p)
		}
		if err := s.persist(); err != nil {
			// A concurrent writer may have replaced the document; pick up its
			// version before the mutation is reapplied on the next attempt.
			if reloadErr := s.Load(); reloadErr != nil {
				s.log.Warn().Err(reloadErr).Msg("reload after failed persist also failed")
			}
			return err
		}
		return nil
	})
}

// AddMountPoint stores a mount point record, deduplicating against existing
// entries: identity is the (place, parent) pair, and a duplicate registration
// returns the canonical existing record without persisting. The returned info
// is the one callers must use from now on.
func (s *Store) AddMountPoint(info types.MountPointInfo) (types.MountPointInfo, error) {
	if existing, ok := mounts.FindInfo(s.doc.MountPoints, info.Place, info.ParentID); ok {
		s.log.Debug().Str("place", info.Place).Str("id", existing.ID).Msg("mount point already registered")
		return existing, nil
	}

	s.doc.MountPoints = append(s.doc.MountPoints, info)
	if err := s.persist(); err != nil {
		// The caller is told the registration failed; keeping the entry would
		// let an unrelated later persist write it anyway.
		s.doc.MountPoints = s.doc.MountPoints[:len(s.doc.MountPoints)-1]
		return types.MountPointInfo{}, err
	}
	return info, nil
}

// ProbingPaths returns a copy of the probing path list.
func (s *Store) ProbingPaths() []string {
	return slices.Clone(s.doc.ProbingPaths)
}

// MountPoints returns a copy of the stored mount point records.
func (s *Store) MountPoints() []types.MountPointInfo {
	return slices.Clone(s.doc.MountPoints)
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}
