// Package config loads skel's engine configuration: built-in defaults,
// an optional skel.toml in the config directory, then SKEL_* environment
// variables, each layer overriding the previous one.
package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	skelerrors "github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// DefaultConfigContent returns the content of the built-in defaults file.
// It doubles as the body of "skel genconfig".
func DefaultConfigContent() string {
	return string(defaultConfig)
}

// Config is the engine configuration after all layers are merged.
type Config struct {
	Locale string      `koanf:"locale" toml:"locale"`
	Host   HostConfig  `koanf:"host" toml:"host"`
	Retry  RetryConfig `koanf:"retry" toml:"retry"`
}

// HostConfig identifies the embedding host application.
type HostConfig struct {
	Identifier string `koanf:"identifier" toml:"identifier"`
}

// RetryConfig tunes the bounded-retry policy used for settings I/O.
type RetryConfig struct {
	LoadAttempts    int `koanf:"load_attempts" toml:"load_attempts"`
	PersistAttempts int `koanf:"persist_attempts" toml:"persist_attempts"`
	IntervalMS      int `koanf:"interval_ms" toml:"interval_ms"`
}

// Interval returns the sleep between retry attempts.
func (r RetryConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMS) * time.Millisecond
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load builds the merged configuration for the given path layout.
func Load(p paths.Paths) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, skelerrors.Wrap(err, skelerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User configuration file, if present
	cfgFile := p.ConfigFile()
	if _, err := os.Stat(cfgFile); err == nil {
		if err := k.Load(file.Provider(cfgFile), toml.Parser()); err != nil {
			return nil, skelerrors.Wrapf(err, skelerrors.ErrConfigParse, "failed to load config from %s", cfgFile)
		}
	}

	// 3. Environment variables: SKEL_HOST_IDENTIFIER -> host.identifier
	err := k.Load(env.Provider("SKEL_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "SKEL_")), "_", ".")
	}), nil)
	if err != nil {
		return nil, skelerrors.Wrap(err, skelerrors.ErrConfigLoad, "failed to load env vars")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, skelerrors.Wrap(err, skelerrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if cfg.Locale == "" {
		cfg.Locale = localeFromEnv()
	}
	return &cfg, nil
}

// localeFromEnv derives the current locale from the usual POSIX variables,
// truncated at the codeset suffix ("pt_BR.UTF-8" -> "pt_BR"). "C" and "POSIX"
// mean no locale preference.
func localeFromEnv() string {
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		if v == "C" || v == "POSIX" {
			return ""
		}
		return v
	}
	return ""
}
