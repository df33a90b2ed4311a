package settings

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/mounts"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/registry"
	"github.com/arthur-debert/skel/pkg/types"
)

// Environment is the orchestrator over the engine's process state. It lazily
// initializes the settings store, capability registry, mount point manager
// and template cache in that dependency order, exactly once, behind a mutex:
// concurrent first callers block until initialization completes instead of
// racing. Every accessor ensures loading first.
type Environment struct {
	mu     sync.Mutex
	loaded bool

	paths paths.Paths
	cfg   *config.Config

	generators     []types.Generator
	extraFactories []types.MountFactory
	loadRetry      *RetryPolicy
	persistRetry   *RetryPolicy

	store      *Store
	cache      *TemplateCache
	components *registry.Components
	mounts     *mounts.Manager

	log zerolog.Logger
}

// Option customizes an Environment before first load.
type Option func(*Environment)

// WithGenerators registers generator capabilities at load time.
func WithGenerators(gens ...types.Generator) Option {
	return func(e *Environment) { e.generators = append(e.generators, gens...) }
}

// WithMountFactories registers mount factories beyond the builtins.
func WithMountFactories(factories ...types.MountFactory) Option {
	return func(e *Environment) { e.extraFactories = append(e.extraFactories, factories...) }
}

// WithRetryPolicies overrides the configured retry tuning, mainly for tests.
func WithRetryPolicies(load, persist RetryPolicy) Option {
	return func(e *Environment) {
		e.loadRetry = &load
		e.persistRetry = &persist
	}
}

// NewEnvironment creates an unloaded Environment. Nothing touches the disk
// until EnsureLoaded (or the first accessor) runs.
func NewEnvironment(p paths.Paths, cfg *config.Config, opts ...Option) *Environment {
	e := &Environment{
		paths: p,
		cfg:   cfg,
		log:   logging.GetLogger("environment"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnsureLoaded initializes the environment if it is not loaded yet. Calling
// it again is a no-op.
func (e *Environment) EnsureLoaded() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ensureLoadedLocked()
}

func (e *Environment) ensureLoadedLocked() error {
	if e.loaded {
		return nil
	}
	done := logging.LogOperationStart(e.log, "environment load")
	defer done()

	loadRetry := LoadPolicy(e.cfg.Retry)
	if e.loadRetry != nil {
		loadRetry = *e.loadRetry
	}
	persistRetry := PersistPolicy(e.cfg.Retry)
	if e.persistRetry != nil {
		persistRetry = *e.persistRetry
	}

	store := NewStore(e.paths.SettingsFile(), e.paths.ContentDir(), loadRetry, persistRetry)
	if err := store.Load(); err != nil {
		return err
	}

	factories := append(mounts.BuiltinFactories(), e.extraFactories...)
	components := registry.NewComponents(e.generators, factories)

	manager := mounts.NewManager(components, store.MountPoints())

	cache := NewTemplateCache(e.paths, e.cfg.Locale)
	if err := cache.Load(); err != nil {
		return err
	}

	e.store = store
	e.components = components
	e.mounts = manager
	e.cache = cache
	e.loaded = true
	return nil
}

// Reload forces a transition back to unloaded and re-runs initialization
// synchronously. Live mount points from the previous state are released.
func (e *Environment) Reload() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mounts != nil {
		if err := e.mounts.Close(); err != nil {
			e.log.Warn().Err(err).Msg("closing mounts during reload")
		}
	}
	e.loaded = false
	return e.ensureLoadedLocked()
}

// Close releases resources held by the environment (live mount points).
func (e *Environment) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mounts == nil {
		return nil
	}
	return e.mounts.Close()
}

// Components returns the capability registry, loading the environment first.
func (e *Environment) Components() (*registry.Components, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return e.components, nil
}

// Mounts returns the mount point manager, loading the environment first.
func (e *Environment) Mounts() (*mounts.Manager, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return e.mounts, nil
}

// Templates returns the cached template metadata for the current locale.
func (e *Environment) Templates() ([]types.TemplateInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return e.cache.Templates(), nil
}

// ProbingPaths returns the filesystem locations scanned for template content.
func (e *Environment) ProbingPaths() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return e.store.ProbingPaths(), nil
}

// MountPointInfos returns the persisted mount point records.
func (e *Environment) MountPointInfos() ([]types.MountPointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return nil, err
	}
	return e.store.MountPoints(), nil
}

// AddProbingPath adds a content location to the settings store.
func (e *Environment) AddProbingPath(p string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return err
	}
	return e.store.AddProbingPath(p)
}

// AddMountPoint stores a mount point record (deduplicated by place and
// parent) and indexes it for the mount manager. The canonical record is
// returned.
func (e *Environment) AddMountPoint(info types.MountPointInfo) (types.MountPointInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return types.MountPointInfo{}, err
	}
	canonical, err := e.store.AddMountPoint(info)
	if err != nil {
		return types.MountPointInfo{}, err
	}
	e.mounts.AddInfo(canonical)
	return canonical, nil
}

// WriteTemplateCache persists a full template list for a locale.
func (e *Environment) WriteTemplateCache(locale string, templates []types.TemplateInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.ensureLoadedLocked(); err != nil {
		return err
	}
	return e.cache.Write(locale, templates)
}

// Locale returns the locale the environment resolves templates for.
func (e *Environment) Locale() string {
	return e.cfg.Locale
}

// HostIdentifier returns the configured host identifier, empty when the host
// overlay convention is disabled.
func (e *Environment) HostIdentifier() string {
	return e.cfg.Host.Identifier
}
