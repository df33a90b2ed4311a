package generators

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/mounts"
	"github.com/arthur-debert/skel/pkg/types"
)

func newDirMount(t *testing.T, files map[string]string) types.MountPoint {
	t.Helper()
	dir := t.TempDir()
	for place, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(place))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0644))
	}
	factory := &mounts.DirectoryFactory{}
	mp, err := factory.Create(mounts.NewDirectoryInfo(dir), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = mp.Close() })
	return mp
}

func TestTemplatesFromMountDiscovers(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"console/template.json": `{"identity": "console.app", "name": "Console App", "shortName": "console"}`,
		"web/template.json":     `{"identity": "web.app", "name": "Web App", "shortName": "web"}`,
		"web/readme.txt":        "not a config",
	})

	g := NewRunnable()
	infos, langpacks, err := g.TemplatesFromMount(mp)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Empty(t, langpacks)

	byID := map[string]types.TemplateInfo{}
	for _, info := range infos {
		byID[info.ID] = info
	}
	assert.Equal(t, "Console App", byID["console.app"].Name)
	assert.Equal(t, "console/template.json", byID["console.app"].ConfigPlace)
	assert.Equal(t, RunnableID, byID["console.app"].GeneratorID)
	assert.Equal(t, mp.Info().ID, byID["console.app"].ConfigMountID)
}

func TestTemplatesFromMountFindsLangpacks(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"console/template.json":       `{"identity": "console.app", "name": "Console App"}`,
		"console/de-DE/template.json": `{"name": "Konsolenanwendung"}`,
	})

	g := NewRunnable()
	infos, langpacks, err := g.TemplatesFromMount(mp)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	require.Len(t, langpacks, 1)

	assert.Equal(t, "de-DE", langpacks[0].Locale)
	require.Len(t, langpacks[0].Templates, 1)
	localized := langpacks[0].Templates[0]
	assert.Equal(t, "console.app", localized.ID)
	assert.Equal(t, "Konsolenanwendung", localized.Name)
	assert.Equal(t, "console/template.json", localized.ConfigPlace)
	assert.Equal(t, "console/de-DE/template.json", localized.LocaleConfigPlace)
}

func TestTemplatesFromMountSkipsOrphanLangpack(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"orphan/fr-FR/template.json": `{"name": "Orpheline"}`,
	})

	g := NewRunnable()
	infos, langpacks, err := g.TemplatesFromMount(mp)
	require.NoError(t, err)
	assert.Empty(t, infos)
	assert.Empty(t, langpacks)
}

func TestTemplateFromConfigMergesOverlays(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"console/template.json": `{
  "identity": "console.app",
  "name": "Console App",
  "author": "skel",
  "parameters": [
    {"name": "framework", "type": "string", "description": "Target framework", "default": "net8.0"},
    {"name": "port", "type": "int"}
  ]
}`,
		"console/de-DE/template.json": `{
  "name": "Konsolenanwendung",
  "parameters": [{"name": "framework", "description": "Zielframework"}]
}`,
		"console/ide.host.json": `{
  "parameters": [{"name": "port", "default": 8080}, {"name": "telemetry", "type": "bool"}]
}`,
	})

	g := NewRunnable()
	locale := &types.FileRef{Mount: mp, Place: "console/de-DE/template.json"}
	host := &types.FileRef{Mount: mp, Place: "console/ide.host.json"}
	tmpl, ok := g.TemplateFromConfig(types.FileRef{Mount: mp, Place: "console/template.json"}, locale, host)
	require.True(t, ok)

	assert.Equal(t, "Konsolenanwendung", tmpl.Name)
	assert.Equal(t, "skel", tmpl.Author)

	params := g.ParametersForTemplate(tmpl)
	require.Len(t, params, 3)
	byName := map[string]types.Parameter{}
	for _, p := range params {
		byName[p.Name] = p
	}
	assert.Equal(t, "Zielframework", byName["framework"].Description)
	assert.Equal(t, "net8.0", byName["framework"].Default)
	assert.Equal(t, float64(8080), byName["port"].Default)
	assert.Equal(t, "bool", byName["telemetry"].Type)
}

func TestTemplateFromConfigBadJSONIsSoftFailure(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"broken/template.json": "{not json",
	})

	g := NewRunnable()
	tmpl, ok := g.TemplateFromConfig(types.FileRef{Mount: mp, Place: "broken/template.json"}, nil, nil)
	assert.False(t, ok)
	assert.Nil(t, tmpl)
}

func TestConvertParameterValue(t *testing.T) {
	g := NewRunnable()

	v, err := g.ConvertParameterValue(types.Parameter{Name: "s", Type: "string"}, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = g.ConvertParameterValue(types.Parameter{Name: "n", Type: "int"}, "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), v)

	v, err = g.ConvertParameterValue(types.Parameter{Name: "b", Type: "bool"}, "true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = g.ConvertParameterValue(types.Parameter{Name: "n", Type: "int"}, "forty-two")
	assert.Error(t, err)

	_, err = g.ConvertParameterValue(types.Parameter{Name: "x", Type: "matrix"}, "whatever")
	assert.Error(t, err)
}

func TestCreatePlansOutputs(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"console/template.json": `{
  "identity": "console.app",
  "name": "Console App",
  "primaryOutputs": ["%name%/Program.cs", "%name%/%name%.csproj"],
  "postActions": ["restore"]
}`,
	})

	g := NewRunnable()
	tmpl, ok := g.TemplateFromConfig(types.FileRef{Mount: mp, Place: "console/template.json"}, nil, nil)
	require.True(t, ok)

	result, err := g.Create(context.Background(), tmpl, types.ParameterBag{"name": "MyApp"}, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, []string{"MyApp/Program.cs", "MyApp/MyApp.csproj"}, result.PrimaryOutputs)
	assert.Equal(t, []string{"restore"}, result.PostActions)
}

func TestCreateHonorsContext(t *testing.T) {
	mp := newDirMount(t, map[string]string{
		"console/template.json": `{"identity": "console.app", "name": "Console App"}`,
	})

	g := NewRunnable()
	tmpl, ok := g.TemplateFromConfig(types.FileRef{Mount: mp, Place: "console/template.json"}, nil, nil)
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := g.Create(ctx, tmpl, nil, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}
