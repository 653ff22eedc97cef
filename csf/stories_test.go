package csf

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmbook/wasmbook/registry"
)

func buttonStory(t *testing.T) Story {
	t.Helper()
	return Catalog([]registry.Item{describeItem(t, &Button{})})[0]
}

func TestStoryJS(t *testing.T) {
	src, err := StoryJS(buttonStory(t), nil)
	require.NoError(t, err)
	js := string(src)

	assert.True(t, strings.HasPrefix(js, "// Code generated by wasmbook. DO NOT EDIT."), "missing generated-code header:\n%s", js)
	assert.Contains(t, js, `title: "Components/Button",`)
	assert.Contains(t, js, `globalThis.wasmbook.render_story("Button", args)`)
	assert.Contains(t, js, "throw new Error(result.error)")
	assert.Contains(t, js, `"label": "Click me"`)
	assert.Contains(t, js, `"color": "#007bff"`)
	assert.Contains(t, js, `"control": {`)
	assert.NotContains(t, js, "import ", "no import line without cfg.Import")
}

func TestStoryJSNumericDefaultsAreLiterals(t *testing.T) {
	type Gauge struct {
		Level  int  `story:"level" default:"3"`
		Active bool `story:"active" default:"true"`
	}
	story := Catalog([]registry.Item{describeItem(t, &Gauge{})})[0]

	src, err := StoryJS(story, nil)
	require.NoError(t, err)
	js := string(src)

	assert.Contains(t, js, `"level": 3`)
	assert.Contains(t, js, `"active": true`)
	assert.NotContains(t, js, `"level": "3"`)
}

func TestStoryJSConfigOverrides(t *testing.T) {
	cfg := &Config{
		TitlePrefix: "UI",
		Global:      "gallery",
		Import:      "../pkg/gallery.js",
		Stories:     []*StoryConfig{{Name: "Button", Title: "Core/Button"}},
	}

	src, err := StoryJS(buttonStory(t), cfg)
	require.NoError(t, err)
	js := string(src)

	assert.Contains(t, js, `import '../pkg/gallery.js';`)
	assert.Contains(t, js, `title: "Core/Button",`)
	assert.Contains(t, js, `globalThis.gallery.render_story("Button", args)`)
}

func TestWriteStories(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.OutDir = filepath.Join(dir, "stories")

	stories := Catalog([]registry.Item{
		describeItem(t, &Button{}),
		describeItem(t, &Dish{}),
	})
	require.NoError(t, WriteStories(context.Background(), stories, cfg))

	for _, name := range []string{"Button", "Dish"} {
		raw, err := os.ReadFile(filepath.Join(cfg.OutDir, name+".stories.js"))
		require.NoError(t, err, "missing stories file for %s", name)
		assert.Contains(t, string(raw), `render_story("`+name+`", args)`)
	}
}

func TestWriteStoriesRejectsUnknownConfigStory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutDir = t.TempDir()
	cfg.Stories = []*StoryConfig{{Name: "Ghost"}}

	err := WriteStories(context.Background(), Catalog([]registry.Item{describeItem(t, &Button{})}), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config story 'Ghost' does not exist")

	// The parity check runs before any file lands.
	entries, readErr := os.ReadDir(cfg.OutDir)
	require.NoError(t, readErr)
	assert.Empty(t, entries)
}
