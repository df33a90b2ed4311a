// Package resolver turns cached template metadata into fully parsed
// templates. Resolution is deliberately soft: any missing piece (generator,
// mount, configuration file) yields a nil template rather than an error, so
// a stale cache entry degrades to "template unavailable" instead of failing
// the whole listing.
package resolver

import (
	"path"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/mounts"
	"github.com/arthur-debert/skel/pkg/registry"
	"github.com/arthur-debert/skel/pkg/types"
)

// HostConfigSuffix is appended to the host identifier to form the optional
// per-host overlay file name, looked up next to the primary configuration.
const HostConfigSuffix = ".host.json"

// Resolver loads templates from their cached metadata.
type Resolver struct {
	components *registry.Components
	mounts     *mounts.Manager
	host       string
	log        zerolog.Logger
}

// New creates a Resolver. host is the host identifier used for per-host
// configuration overlays; empty disables the overlay lookup.
func New(components *registry.Components, manager *mounts.Manager, host string) *Resolver {
	return &Resolver{
		components: components,
		mounts:     manager,
		host:       host,
		log:        logging.GetLogger("resolver"),
	}
}

// Load resolves a cached TemplateInfo into a parsed Template. It returns nil
// when any required piece is unavailable: the generator is not registered,
// the configuration mount cannot be demanded, the configuration file is gone,
// or the declared locale overlay is unreachable. There is no partial
// fallback: a template that declares localization either resolves with it or
// not at all.
func (r *Resolver) Load(info types.TemplateInfo) *types.Template {
	gen, err := r.components.Generator(info.GeneratorID)
	if err != nil {
		r.log.Debug().Str("template", info.ID).Str("generator", info.GeneratorID).Msg("generator not registered")
		return nil
	}

	mount, err := r.mounts.Demand(info.ConfigMountID)
	if err != nil {
		r.log.Debug().Err(err).Str("template", info.ID).Msg("configuration mount unavailable")
		return nil
	}

	config := types.FileRef{Mount: mount, Place: info.ConfigPlace}
	if !config.Exists() {
		r.log.Debug().Str("template", info.ID).Str("place", info.ConfigPlace).Msg("configuration file missing")
		return nil
	}

	var localeConfig *types.FileRef
	if info.LocaleConfigPlace != "" {
		localeMount := mount
		if info.LocaleConfigMountID != "" && info.LocaleConfigMountID != info.ConfigMountID {
			localeMount, err = r.mounts.Demand(info.LocaleConfigMountID)
			if err != nil {
				r.log.Debug().Err(err).Str("template", info.ID).Msg("locale mount unavailable")
				return nil
			}
		}
		ref := types.FileRef{Mount: localeMount, Place: info.LocaleConfigPlace}
		if !ref.Exists() {
			r.log.Debug().Str("template", info.ID).Str("place", info.LocaleConfigPlace).Msg("declared locale overlay missing")
			return nil
		}
		localeConfig = &ref
	}

	var hostConfig *types.FileRef
	if r.host != "" {
		ref := types.FileRef{
			Mount: mount,
			Place: path.Join(path.Dir(info.ConfigPlace), r.host+HostConfigSuffix),
		}
		if ref.Exists() {
			hostConfig = &ref
		}
	}

	tmpl, ok := gen.TemplateFromConfig(config, localeConfig, hostConfig)
	if !ok {
		r.log.Warn().Str("template", info.ID).Str("place", info.ConfigPlace).Msg("configuration failed to parse")
		return nil
	}
	if tmpl != nil {
		tmpl.Info = info
	}
	return tmpl
}

// LoadAll resolves every info in the list, dropping the ones that come back
// nil.
func (r *Resolver) LoadAll(infos []types.TemplateInfo) []*types.Template {
	var out []*types.Template
	for _, info := range infos {
		if tmpl := r.Load(info); tmpl != nil {
			out = append(out, tmpl)
		}
	}
	return out
}
