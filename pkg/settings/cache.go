package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

// cacheDocument is the persisted shape of a template cache file.
type cacheDocument struct {
	Locale    string               `json:"locale,omitempty"`
	Templates []types.TemplateInfo `json:"templates"`
}

// TemplateCache is the durable snapshot of discovered template metadata,
// partitioned by locale. One locale's cache is held in memory at a time,
// selected at load time.
type TemplateCache struct {
	paths     paths.Paths
	locale    string
	templates []types.TemplateInfo
	log       zerolog.Logger
}

// NewTemplateCache creates a cache bound to the given locale. An empty
// locale selects the culture-neutral cache directly.
func NewTemplateCache(p paths.Paths, locale string) *TemplateCache {
	return &TemplateCache{
		paths:  p,
		locale: locale,
		log:    logging.GetLogger("templatecache"),
	}
}

// Load populates the cache with a three-level fallback: the locale-specific
// cache file if present; otherwise the culture-neutral cache file, which is
// additionally cloned into the current-locale file so subsequent loads hit
// the first level; otherwise an empty document.
func (c *TemplateCache) Load() error {
	if c.locale != "" {
		doc, ok, err := readCacheFile(c.paths.TemplateCacheFile(c.locale))
		if err != nil {
			return err
		}
		if ok {
			c.templates = doc.Templates
			c.log.Debug().Str("locale", c.locale).Int("templates", len(doc.Templates)).Msg("locale cache loaded")
			return nil
		}
	}

	doc, ok, err := readCacheFile(c.paths.TemplateCacheFile(""))
	if err != nil {
		return err
	}
	if ok {
		c.templates = doc.Templates
		if c.locale != "" {
			// Clone the neutral cache so the next load short-circuits.
			if err := c.Write(c.locale, doc.Templates); err != nil {
				c.log.Warn().Err(err).Str("locale", c.locale).Msg("failed to clone neutral cache")
			}
		}
		c.log.Debug().Int("templates", len(doc.Templates)).Msg("neutral cache loaded")
		return nil
	}

	c.templates = nil
	return nil
}

// Write persists a full template list for a locale. An empty locale writes
// the culture-neutral cache.
func (c *TemplateCache) Write(locale string, templates []types.TemplateInfo) error {
	doc := cacheDocument{Locale: locale, Templates: templates}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrCacheWrite, "serializing template cache")
	}

	target := c.paths.TemplateCacheFile(locale)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrCacheWrite, "creating cache directory for %s", target)
	}
	if err := writeFileAtomic(target, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrCacheWrite, "writing template cache to %s", target)
	}

	if locale == c.locale {
		c.templates = slices.Clone(templates)
	}
	return nil
}

// Templates returns the in-memory template list for the loaded locale.
func (c *TemplateCache) Templates() []types.TemplateInfo {
	return slices.Clone(c.templates)
}

// Locale returns the locale this cache was loaded for.
func (c *TemplateCache) Locale() string {
	return c.locale
}

// readCacheFile reads one cache document. ok is false when the file does not
// exist; a present but unparsable file is an error.
func readCacheFile(path string) (cacheDocument, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cacheDocument{}, false, nil
		}
		return cacheDocument{}, false, errors.Wrapf(err, errors.ErrCacheLoad, "reading template cache %s", path)
	}

	var doc cacheDocument
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return cacheDocument{}, false, errors.Wrapf(err, errors.ErrCacheLoad, "parsing template cache %s", path)
		}
	}
	return doc, true, nil
}
