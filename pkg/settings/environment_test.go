package settings

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/config"
	"github.com/arthur-debert/skel/pkg/types"
)

func testConfig(locale string) *config.Config {
	return &config.Config{
		Locale: locale,
		Retry:  config.RetryConfig{LoadAttempts: 20, PersistAttempts: 10, IntervalMS: 1},
	}
}

func quickRetryOption() Option {
	sleeper := &fakeSleeper{}
	return WithRetryPolicies(quickPolicy(20, sleeper), quickPolicy(10, sleeper))
}

func TestEnvironmentAccessorsTriggerLoad(t *testing.T) {
	p := newCachePaths(t)
	e := NewEnvironment(p, testConfig(""), quickRetryOption())

	// No explicit EnsureLoaded: the accessor performs it.
	templates, err := e.Templates()
	require.NoError(t, err)
	assert.Empty(t, templates)

	probing, err := e.ProbingPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{p.ContentDir()}, probing)
}

func TestEnsureLoadedIsIdempotent(t *testing.T) {
	p := newCachePaths(t)
	e := NewEnvironment(p, testConfig(""), quickRetryOption())
	require.NoError(t, e.EnsureLoaded())

	// An external writer updates the settings file behind our back.
	doc := `{"probingPaths": ["/somewhere/else"], "mountPoints": []}`
	require.NoError(t, os.MkdirAll(filepath.Dir(p.SettingsFile()), 0755))
	require.NoError(t, os.WriteFile(p.SettingsFile(), []byte(doc), 0644))

	// A second EnsureLoaded must not re-read the document.
	require.NoError(t, e.EnsureLoaded())
	probing, err := e.ProbingPaths()
	require.NoError(t, err)
	assert.NotContains(t, probing, "/somewhere/else")

	// Reload transitions back to unloaded and re-initializes.
	require.NoError(t, e.Reload())
	probing, err = e.ProbingPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"/somewhere/else"}, probing)
}

func TestEnvironmentAddMountPointDedup(t *testing.T) {
	p := newCachePaths(t)
	contentDir := t.TempDir()
	e := NewEnvironment(p, testConfig(""), quickRetryOption())

	first, err := e.AddMountPoint(types.MountPointInfo{ID: "a", Place: contentDir, FactoryID: "directory"})
	require.NoError(t, err)
	second, err := e.AddMountPoint(types.MountPointInfo{ID: "b", Place: contentDir, FactoryID: "directory"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	infos, err := e.MountPointInfos()
	require.NoError(t, err)
	assert.Len(t, infos, 1)

	// The canonical record is demandable through the manager.
	mgr, err := e.Mounts()
	require.NoError(t, err)
	mp, err := mgr.Demand(first.ID)
	require.NoError(t, err)
	assert.Equal(t, contentDir, mp.Info().Place)
}

func TestEnvironmentReloadReleasesMounts(t *testing.T) {
	p := newCachePaths(t)
	contentDir := t.TempDir()
	e := NewEnvironment(p, testConfig(""), quickRetryOption())

	info, err := e.AddMountPoint(types.MountPointInfo{ID: "m", Place: contentDir, FactoryID: "directory"})
	require.NoError(t, err)

	mgr, err := e.Mounts()
	require.NoError(t, err)
	before, err := mgr.Demand(info.ID)
	require.NoError(t, err)

	require.NoError(t, e.Reload())

	mgr, err = e.Mounts()
	require.NoError(t, err)
	after, err := mgr.Demand(info.ID)
	require.NoError(t, err)
	assert.NotSame(t, before, after)
}

func TestEnvironmentLocaleAndHost(t *testing.T) {
	p := newCachePaths(t)
	cfg := testConfig("pt-BR")
	cfg.Host.Identifier = "ide"
	e := NewEnvironment(p, cfg, quickRetryOption())

	assert.Equal(t, "pt-BR", e.Locale())
	assert.Equal(t, "ide", e.HostIdentifier())
}

// scanGenerator is a minimal Generator used to exercise scanning.
type scanGenerator struct {
	infos     []types.TemplateInfo
	langpacks []types.Localization
}

func (g *scanGenerator) ID() string { return "scan-test" }

func (g *scanGenerator) TemplateFromConfig(config types.FileRef, localeConfig, hostConfig *types.FileRef) (*types.Template, bool) {
	return nil, false
}

func (g *scanGenerator) TemplatesFromMount(mount types.MountPoint) ([]types.TemplateInfo, []types.Localization, error) {
	return g.infos, g.langpacks, nil
}

func (g *scanGenerator) ParametersForTemplate(tmpl *types.Template) []types.Parameter {
	return nil
}

func (g *scanGenerator) ConvertParameterValue(p types.Parameter, raw string) (any, error) {
	return raw, nil
}

func (g *scanGenerator) Create(ctx context.Context, tmpl *types.Template, params types.ParameterBag, targetDir string) (*types.CreationResult, error) {
	return &types.CreationResult{}, nil
}

func TestScanProbingPathsWritesCache(t *testing.T) {
	p := newCachePaths(t)
	contentDir := t.TempDir()

	gen := &scanGenerator{
		infos: []types.TemplateInfo{
			{ID: "console", Name: "Console App", ConfigPlace: "console/template.json", GeneratorID: "scan-test"},
			{ID: "web", Name: "Web App", ConfigPlace: "web/template.json", GeneratorID: "scan-test"},
		},
		langpacks: []types.Localization{
			{Locale: "de-DE", Templates: []types.TemplateInfo{
				{ID: "console", Name: "Konsolenanwendung", ConfigPlace: "console/template.json", GeneratorID: "scan-test"},
			}},
		},
	}

	e := NewEnvironment(p, testConfig(""), quickRetryOption(), WithGenerators(gen))
	require.NoError(t, e.EnsureLoaded())
	require.NoError(t, e.AddProbingPath(contentDir))

	all, err := e.ScanProbingPaths()
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Neutral cache holds both, locale cache holds the merged overlay.
	neutral := NewTemplateCache(p, "")
	require.NoError(t, neutral.Load())
	assert.Len(t, neutral.Templates(), 2)

	german := NewTemplateCache(p, "de-DE")
	require.NoError(t, german.Load())
	templates := german.Templates()
	require.Len(t, templates, 2)
	byID := map[string]types.TemplateInfo{}
	for _, ti := range templates {
		byID[ti.ID] = ti
	}
	assert.Equal(t, "Konsolenanwendung", byID["console"].Name)
	assert.Equal(t, "Web App", byID["web"].Name)
}

func TestScanHonorsIgnoreFile(t *testing.T) {
	p := newCachePaths(t)
	contentDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, IgnoreFileName), []byte("# drafts\nweb/**\n"), 0644))

	gen := &scanGenerator{
		infos: []types.TemplateInfo{
			{ID: "console", Name: "Console App", ConfigPlace: "console/template.json", GeneratorID: "scan-test"},
			{ID: "web", Name: "Web App", ConfigPlace: "web/template.json", GeneratorID: "scan-test"},
		},
	}

	e := NewEnvironment(p, testConfig(""), quickRetryOption(), WithGenerators(gen))
	require.NoError(t, e.EnsureLoaded())
	require.NoError(t, e.AddProbingPath(contentDir))

	all, err := e.ScanProbingPaths()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "console", all[0].ID)
}

func TestRescanRefreshesClonedLocaleCache(t *testing.T) {
	p := newCachePaths(t)
	contentDir := t.TempDir()

	gen := &scanGenerator{
		infos: []types.TemplateInfo{
			{ID: "console", Name: "Console App", ConfigPlace: "console/template.json", GeneratorID: "scan-test"},
		},
	}

	e := NewEnvironment(p, testConfig("pt-BR"), quickRetryOption(), WithGenerators(gen))
	require.NoError(t, e.EnsureLoaded())
	require.NoError(t, e.AddProbingPath(contentDir))

	_, err := e.ScanProbingPaths()
	require.NoError(t, err)

	// Reload falls back to the neutral cache and clones it into the pt-BR
	// file; that clone must not shadow later scans.
	require.NoError(t, e.Reload())

	gen.infos = append(gen.infos, types.TemplateInfo{
		ID: "web", Name: "Web App", ConfigPlace: "web/template.json", GeneratorID: "scan-test",
	})
	all, err := e.ScanProbingPaths()
	require.NoError(t, err)
	require.Len(t, all, 2)

	templates, err := e.Templates()
	require.NoError(t, err)
	assert.Len(t, templates, 2)
}

func TestScanSkipsMissingProbingPaths(t *testing.T) {
	p := newCachePaths(t)

	e := NewEnvironment(p, testConfig(""), quickRetryOption())
	require.NoError(t, e.EnsureLoaded())
	require.NoError(t, e.AddProbingPath(filepath.Join(t.TempDir(), "does-not-exist")))

	all, err := e.ScanProbingPaths()
	require.NoError(t, err)
	assert.Empty(t, all)
}
