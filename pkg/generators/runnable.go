// Package generators holds the built-in generator capabilities. The runnable
// generator understands the JSON template configuration convention: a
// template.json per template directory, optional per-locale overlays in
// locale-named subdirectories, and optional per-host overlays next to the
// primary file.
package generators

import (
	"context"
	"encoding/json"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/skel/pkg/errors"
	"github.com/arthur-debert/skel/pkg/logging"
	"github.com/arthur-debert/skel/pkg/types"
)

// RunnableID is the registry id of the built-in JSON generator.
const RunnableID = "runnable"

// ConfigFileName is the per-template configuration file the generator scans
// for.
const ConfigFileName = "template.json"

// localeDirPattern matches directory names that hold locale overlays, like
// "de-DE" or "pt-BR". The region part is mandatory so ordinary template
// directory names ("web", "api") are never mistaken for langpacks.
var localeDirPattern = regexp.MustCompile(`^[a-z]{2,3}-[A-Z]{2}$`)

// templateConfig is the on-disk shape of template.json. Locale and host
// overlays use the same shape; empty fields in an overlay keep the base value.
type templateConfig struct {
	Identity       string            `json:"identity"`
	Name           string            `json:"name"`
	ShortName      string            `json:"shortName,omitempty"`
	Author         string            `json:"author,omitempty"`
	Description    string            `json:"description,omitempty"`
	Tags           map[string]string `json:"tags,omitempty"`
	Parameters     []types.Parameter `json:"parameters,omitempty"`
	PrimaryOutputs []string          `json:"primaryOutputs,omitempty"`
	PostActions    []string          `json:"postActions,omitempty"`
}

// Runnable is the built-in generator over JSON template configurations.
type Runnable struct {
	log zerolog.Logger
}

// NewRunnable creates the built-in generator.
func NewRunnable() *Runnable {
	return &Runnable{log: logging.GetLogger("generator.runnable")}
}

// ID implements types.Generator.
func (g *Runnable) ID() string { return RunnableID }

// TemplateFromConfig parses a template from its configuration layers. Layers
// merge in order base, locale, host; a failure to read or parse any declared
// layer is a soft failure for this template.
func (g *Runnable) TemplateFromConfig(config types.FileRef, localeConfig, hostConfig *types.FileRef) (*types.Template, bool) {
	base, err := readConfig(config)
	if err != nil {
		g.log.Debug().Err(err).Str("place", config.Place).Msg("unreadable template configuration")
		return nil, false
	}

	for _, overlay := range []*types.FileRef{localeConfig, hostConfig} {
		if overlay == nil {
			continue
		}
		layer, err := readConfig(*overlay)
		if err != nil {
			g.log.Debug().Err(err).Str("place", overlay.Place).Msg("unreadable overlay")
			return nil, false
		}
		mergeConfig(&base, layer)
	}

	return &types.Template{
		Name:        base.Name,
		Description: base.Description,
		Author:      base.Author,
		Parameters:  base.Parameters,
		Config:      config,
	}, true
}

// TemplatesFromMount walks the mount looking for template.json files. A
// configuration directly in a template directory is culture neutral; one
// inside a locale-named subdirectory is a langpack for the template above it.
func (g *Runnable) TemplatesFromMount(mount types.MountPoint) ([]types.TemplateInfo, []types.Localization, error) {
	mountID := mount.Info().ID

	var places []string
	if err := findConfigs(mount.FS(), "", &places); err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrFileAccess, "walking mount %q", mountID)
	}

	var infos []types.TemplateInfo
	localized := make(map[string][]types.TemplateInfo)

	for _, place := range places {
		dir := path.Dir(place)
		base := path.Base(dir)

		if localeDirPattern.MatchString(base) {
			neutralPlace := path.Join(path.Dir(dir), ConfigFileName)
			ref := types.FileRef{Mount: mount, Place: neutralPlace}
			if !ref.Exists() {
				g.log.Debug().Str("place", place).Msg("langpack without a neutral configuration, skipping")
				continue
			}
			info, err := g.infoFromConfig(mount, neutralPlace)
			if err != nil {
				g.log.Warn().Err(err).Str("place", neutralPlace).Msg("skipping unparsable template")
				continue
			}
			overlay, err := readConfig(types.FileRef{Mount: mount, Place: place})
			if err != nil {
				g.log.Warn().Err(err).Str("place", place).Msg("skipping unparsable langpack")
				continue
			}
			if overlay.Name != "" {
				info.Name = overlay.Name
			}
			if overlay.Description != "" {
				info.Description = overlay.Description
			}
			info.LocaleConfigMountID = mountID
			info.LocaleConfigPlace = place
			localized[base] = append(localized[base], info)
			continue
		}

		info, err := g.infoFromConfig(mount, place)
		if err != nil {
			g.log.Warn().Err(err).Str("place", place).Msg("skipping unparsable template")
			continue
		}
		infos = append(infos, info)
	}

	langpacks := make([]types.Localization, 0, len(localized))
	for locale, templates := range localized {
		langpacks = append(langpacks, types.Localization{Locale: locale, Templates: templates})
	}
	return infos, langpacks, nil
}

// ParametersForTemplate implements types.Generator.
func (g *Runnable) ParametersForTemplate(tmpl *types.Template) []types.Parameter {
	return tmpl.Parameters
}

// ConvertParameterValue converts a raw string value into the parameter's
// declared type. An unknown type is an error, not a silent pass-through.
func (g *Runnable) ConvertParameterValue(p types.Parameter, raw string) (any, error) {
	switch strings.ToLower(p.Type) {
	case "", "string", "text":
		return raw, nil
	case "int", "integer":
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "parameter %q expects an integer", p.Name)
		}
		return v, nil
	case "bool", "boolean":
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "parameter %q expects a boolean", p.Name)
		}
		return v, nil
	case "float", "number":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "parameter %q expects a number", p.Name)
		}
		return v, nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "parameter %q has unknown type %q", p.Name, p.Type)
	}
}

// Create plans a generation run: it resolves the template's declared outputs
// against the parameter bag and reports them relative to targetDir. Content
// rendering is the embedding host's concern.
func (g *Runnable) Create(ctx context.Context, tmpl *types.Template, params types.ParameterBag, targetDir string) (*types.CreationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg, err := readConfig(tmpl.Config)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateConfig, "rereading configuration for %q", tmpl.Name)
	}

	outputs := make([]string, 0, len(cfg.PrimaryOutputs))
	for _, out := range cfg.PrimaryOutputs {
		outputs = append(outputs, expandTokens(out, params))
	}

	g.log.Info().
		Str("template", tmpl.Name).
		Str("target", targetDir).
		Int("outputs", len(outputs)).
		Msg("planned template instantiation")

	return &types.CreationResult{
		PrimaryOutputs: outputs,
		PostActions:    cfg.PostActions,
	}, nil
}

func (g *Runnable) infoFromConfig(mount types.MountPoint, place string) (types.TemplateInfo, error) {
	cfg, err := readConfig(types.FileRef{Mount: mount, Place: place})
	if err != nil {
		return types.TemplateInfo{}, err
	}
	id := cfg.Identity
	if id == "" {
		id = cfg.ShortName
	}
	return types.TemplateInfo{
		ID:            id,
		Name:          cfg.Name,
		ShortName:     cfg.ShortName,
		Description:   cfg.Description,
		GeneratorID:   RunnableID,
		ConfigMountID: mount.Info().ID,
		ConfigPlace:   place,
		Tags:          cfg.Tags,
	}, nil
}

// findConfigs recursively collects every template.json place under dir.
func findConfigs(fs billy.Filesystem, dir string, places *[]string) error {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		full := path.Join(dir, entry.Name())
		if entry.IsDir() {
			if err := findConfigs(fs, full, places); err != nil {
				return err
			}
			continue
		}
		if entry.Name() == ConfigFileName {
			*places = append(*places, full)
		}
	}
	return nil
}

func readConfig(ref types.FileRef) (templateConfig, error) {
	data, err := ref.ReadAll()
	if err != nil {
		return templateConfig{}, err
	}
	var cfg templateConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return templateConfig{}, err
	}
	return cfg, nil
}

// mergeConfig overlays non-empty fields of layer onto base. Parameters merge
// by name: matching names override, new names append.
func mergeConfig(base *templateConfig, layer templateConfig) {
	if layer.Name != "" {
		base.Name = layer.Name
	}
	if layer.Author != "" {
		base.Author = layer.Author
	}
	if layer.Description != "" {
		base.Description = layer.Description
	}
	for k, v := range layer.Tags {
		if base.Tags == nil {
			base.Tags = make(map[string]string)
		}
		base.Tags[k] = v
	}
	if len(layer.PrimaryOutputs) > 0 {
		base.PrimaryOutputs = layer.PrimaryOutputs
	}
	if len(layer.PostActions) > 0 {
		base.PostActions = layer.PostActions
	}

	for _, p := range layer.Parameters {
		replaced := false
		for i, existing := range base.Parameters {
			if existing.Name == p.Name {
				merged := existing
				if p.Description != "" {
					merged.Description = p.Description
				}
				if p.Default != nil {
					merged.Default = p.Default
				}
				base.Parameters[i] = merged
				replaced = true
				break
			}
		}
		if !replaced {
			base.Parameters = append(base.Parameters, p)
		}
	}
}

// expandTokens substitutes %name% tokens with parameter values.
func expandTokens(s string, params types.ParameterBag) string {
	for name, value := range params {
		token := "%" + name + "%"
		if strings.Contains(s, token) {
			s = strings.ReplaceAll(s, token, stringify(value))
		}
	}
	return s
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
