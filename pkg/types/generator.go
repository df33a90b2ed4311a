package types

import "context"

// CreationResult describes what a generator produced (or planned) for a
// single template instantiation.
type CreationResult struct {
	// PrimaryOutputs are the files the generation run produces, relative to
	// the target directory.
	PrimaryOutputs []string

	// PostActions are opaque identifiers of follow-up steps the host may run.
	PostActions []string
}

// Generator is the pluggable capability that parses template configuration
// and performs generation. Implementations are registered in the capability
// registry under their ID; resolution failure is a soft not-found outcome.
type Generator interface {
	// ID is the stable identifier stored in TemplateInfo.GeneratorID.
	ID() string

	// TemplateFromConfig parses a Template from its primary configuration
	// file plus the optional locale and host overlays (nil when absent).
	// ok is false when the configuration cannot be parsed; callers treat
	// that as a soft failure for this one template.
	TemplateFromConfig(config FileRef, localeConfig, hostConfig *FileRef) (tmpl *Template, ok bool)

	// TemplatesFromMount discovers every template (and its langpacks) the
	// generator recognizes under the mounted source.
	TemplatesFromMount(mount MountPoint) ([]TemplateInfo, []Localization, error)

	// ParametersForTemplate returns the parameter set the template declares.
	ParametersForTemplate(tmpl *Template) []Parameter

	// ConvertParameterValue converts a raw string into the parameter's
	// declared type.
	ConvertParameterValue(p Parameter, raw string) (any, error)

	// Create performs generation for a resolved template into targetDir.
	Create(ctx context.Context, tmpl *Template, params ParameterBag, targetDir string) (*CreationResult, error)
}
