// Package paths provides centralized path handling for skel.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigDir overrides the XDG config directory for skel
	EnvConfigDir = "SKEL_CONFIG_DIR"

	// EnvCacheDir overrides the XDG cache directory for skel
	EnvCacheDir = "SKEL_CACHE_DIR"

	// EnvDataDir overrides the XDG data directory for skel
	EnvDataDir = "SKEL_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for skel
	EnvStateDir = "SKEL_STATE_DIR"
)

// Default directories and files
// IMPORTANT: These constants define skel's on-disk layout and are NOT
// user-configurable. They must remain consistent across installations so that
// settings and caches written by one version are found by the next.
const (
	// AppDirName is the directory name for skel-specific files
	AppDirName = "skel"

	// SettingsFileName is the name of the persistent settings document
	SettingsFileName = "settings.json"

	// ConfigFileName is the name of the optional user configuration file
	ConfigFileName = "skel.toml"

	// TemplateCacheBaseName is the base name of template cache documents.
	// The culture-neutral cache is "templatecache.json"; locale caches are
	// "templatecache.<locale>.json".
	TemplateCacheBaseName = "templatecache"

	// ContentDirName is the subdirectory holding installed template content
	ContentDirName = "content"

	// LogFileName is the name of the log file
	LogFileName = "skel.log"
)

// Paths provides centralized path management for skel
type Paths interface {
	// ConfigDir returns the directory holding the settings document and
	// the optional user configuration file.
	ConfigDir() string

	// SettingsFile returns the full path of the persistent settings document.
	SettingsFile() string

	// ConfigFile returns the full path of the optional user configuration file.
	ConfigFile() string

	// CacheDir returns the directory holding template cache documents.
	CacheDir() string

	// TemplateCacheFile returns the cache document path for a locale.
	// An empty locale names the culture-neutral cache.
	TemplateCacheFile(locale string) string

	// ContentDir returns the default user content location, seeded as the
	// initial probing path on first run.
	ContentDir() string

	// StateDir returns the state directory (log files).
	StateDir() string

	// LogFile returns the full path of the log file.
	LogFile() string
}

type paths struct {
	configDir string
	cacheDir  string
	dataDir   string
	stateDir  string
}

// New creates a Paths instance, resolving each directory from its SKEL_*
// override or the XDG base directory it belongs under.
func New() Paths {
	return &paths{
		configDir: resolveDir(EnvConfigDir, xdg.ConfigHome),
		cacheDir:  resolveDir(EnvCacheDir, xdg.CacheHome),
		dataDir:   resolveDir(EnvDataDir, xdg.DataHome),
		stateDir:  resolveDir(EnvStateDir, xdg.StateHome),
	}
}

func resolveDir(envVar, xdgBase string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return dir
	}
	return filepath.Join(xdgBase, AppDirName)
}

func (p *paths) ConfigDir() string {
	return p.configDir
}

func (p *paths) SettingsFile() string {
	return filepath.Join(p.configDir, SettingsFileName)
}

func (p *paths) ConfigFile() string {
	return filepath.Join(p.configDir, ConfigFileName)
}

func (p *paths) CacheDir() string {
	return p.cacheDir
}

func (p *paths) TemplateCacheFile(locale string) string {
	name := TemplateCacheBaseName + ".json"
	if locale != "" {
		name = TemplateCacheBaseName + "." + locale + ".json"
	}
	return filepath.Join(p.cacheDir, name)
}

func (p *paths) ContentDir() string {
	return filepath.Join(p.dataDir, ContentDirName)
}

func (p *paths) StateDir() string {
	return p.stateDir
}

func (p *paths) LogFile() string {
	return filepath.Join(p.stateDir, LogFileName)
}
