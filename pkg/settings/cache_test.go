package settings

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/skel/pkg/paths"
	"github.com/arthur-debert/skel/pkg/types"
)

func newCachePaths(t *testing.T) paths.Paths {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("SKEL_CONFIG_DIR", dir+"/config")
	t.Setenv("SKEL_CACHE_DIR", dir+"/cache")
	t.Setenv("SKEL_DATA_DIR", dir+"/data")
	t.Setenv("SKEL_STATE_DIR", dir+"/state")
	return paths.New()
}

func sampleTemplates() []types.TemplateInfo {
	return []types.TemplateInfo{
		{ID: "console.cs", Name: "Console App", ShortName: "console", GeneratorID: "runnable"},
		{ID: "web.cs", Name: "Web App", ShortName: "web", GeneratorID: "runnable"},
	}
}

func TestCacheLoadPrefersLocaleFile(t *testing.T) {
	p := newCachePaths(t)

	neutral := NewTemplateCache(p, "")
	require.NoError(t, neutral.Write("", sampleTemplates()))
	require.NoError(t, neutral.Write("de-DE", []types.TemplateInfo{
		{ID: "console.cs", Name: "Konsolenanwendung", ShortName: "console", GeneratorID: "runnable"},
	}))

	c := NewTemplateCache(p, "de-DE")
	require.NoError(t, c.Load())

	got := c.Templates()
	require.Len(t, got, 1)
	assert.Equal(t, "Konsolenanwendung", got[0].Name)
}

func TestCacheLoadFallsBackToNeutralAndClones(t *testing.T) {
	p := newCachePaths(t)

	neutral := NewTemplateCache(p, "")
	require.NoError(t, neutral.Write("", sampleTemplates()))

	c := NewTemplateCache(p, "fr-FR")
	require.NoError(t, c.Load())

	// The neutral contents are served...
	assert.Equal(t, sampleTemplates(), c.Templates())

	// ...and cloned into the locale file so the next load short-circuits.
	_, err := os.Stat(p.TemplateCacheFile("fr-FR"))
	require.NoError(t, err)

	cloned := NewTemplateCache(p, "fr-FR")
	require.NoError(t, cloned.Load())
	assert.Equal(t, sampleTemplates(), cloned.Templates())
}

func TestCacheLoadEmptyWhenNothingCached(t *testing.T) {
	p := newCachePaths(t)

	c := NewTemplateCache(p, "ja-JP")
	require.NoError(t, c.Load())
	assert.Empty(t, c.Templates())

	// No clone side effect when there was nothing to clone.
	_, err := os.Stat(p.TemplateCacheFile("ja-JP"))
	assert.True(t, os.IsNotExist(err))
}

func TestCacheWriteUpdatesMemoryForOwnLocale(t *testing.T) {
	p := newCachePaths(t)

	c := NewTemplateCache(p, "de-DE")
	require.NoError(t, c.Load())
	require.Empty(t, c.Templates())

	require.NoError(t, c.Write("de-DE", sampleTemplates()))
	assert.Equal(t, sampleTemplates(), c.Templates())

	// Writing another locale's cache leaves the in-memory state alone.
	require.NoError(t, c.Write("pt-BR", nil))
	assert.Equal(t, sampleTemplates(), c.Templates())
}

func TestCacheCorruptFileIsAnError(t *testing.T) {
	p := newCachePaths(t)

	target := p.TemplateCacheFile("")
	require.NoError(t, os.MkdirAll(p.CacheDir(), 0755))
	require.NoError(t, os.WriteFile(target, []byte("{not json"), 0644))

	c := NewTemplateCache(p, "")
	assert.Error(t, c.Load())
}
