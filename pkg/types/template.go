package types

// TemplateInfo is the cached metadata of a discovered template. It is enough
// to resolve the full Template on demand without rescanning the filesystem.
// Immutable once loaded from the template cache.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ShortName   string `json:"shortName,omitempty"`
	Description string `json:"description,omitempty"`

	// GeneratorID names the generator capability that owns this template.
	GeneratorID string `json:"generator"`

	// ConfigMountID and ConfigPlace locate the primary configuration file.
	ConfigMountID string `json:"configMount"`
	ConfigPlace   string `json:"configPlace"`

	// LocaleConfigMountID and LocaleConfigPlace locate the optional
	// locale-specific overlay. Empty means the template has no localization
	// for the current locale.
	LocaleConfigMountID string `json:"localeConfigMount,omitempty"`
	LocaleConfigPlace   string `json:"localeConfigPlace,omitempty"`

	// Tags carry descriptive metadata opaque to the engine core.
	Tags map[string]string `json:"tags,omitempty"`
}

// Template is the fully resolved, parsed template a generator produces from
// a TemplateInfo's configuration layers. The caller owns it after resolution.
type Template struct {
	Info        TemplateInfo
	Name        string
	Description string
	Author      string
	Parameters  []Parameter

	// Config is the primary configuration file the template was parsed from,
	// kept so generation can locate sibling content.
	Config FileRef
}

// Localization pairs a locale with the templates discovered for it during a
// scan; generators report langpacks through it.
type Localization struct {
	Locale    string
	Templates []TemplateInfo
}
