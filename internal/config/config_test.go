package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygunayer/mangapdf/internal/errs"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validJSON = `{
  "name": "Foo",
  "author": "Bar",
  "root": "/srv/manga/foo",
  "volume_filename_template": "[NAME] Vol.[VOLUME] by [AUTHOR].pdf",
  "cover_size": [1200, 1800],
  "dictionary": [
    {"volume": 2, "first_chapter": 9, "last_chapter": 16},
    {"volume": 1, "first_chapter": 1, "last_chapter": 8.5}
  ]
}`

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", validJSON)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Foo", cfg.Name)
	assert.Equal(t, "Bar", cfg.Author)
	assert.Equal(t, "/srv/manga/foo", cfg.Root)
	assert.Equal(t, 1200, cfg.CoverWidth())
	assert.Equal(t, 1800, cfg.CoverHeight())
	require.Len(t, cfg.Dictionary, 2)
	assert.Equal(t, VolumeRange{Volume: 2, FirstChapter: 9, LastChapter: 16}, cfg.Dictionary[0])
	assert.Equal(t, 8.5, cfg.Dictionary[1].LastChapter)

	assert.Equal(t, CoverPolicyCrop, cfg.CoverPolicy)
	assert.Equal(t, DefaultMinVolumeSize, cfg.MinVolumeSize)
	assert.Equal(t, 1, cfg.Jobs)
}

func TestLoadUpperCaseKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", `{
  "NAME": "Foo",
  "AUTHOR": "Bar",
  "ROOT": "series",
  "VOLUME_FILENAME_TEMPLATE": "[NAME] [VOLUME]",
  "COVER_SIZE": [800, 1200],
  "DICTIONARY": [{"volume": 1, "first_chapter": 1, "last_chapter": 4}]
}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Foo", cfg.Name)
	assert.Equal(t, "series", cfg.Root)
	require.Len(t, cfg.Dictionary, 1)
	assert.Equal(t, 4.0, cfg.Dictionary[0].LastChapter)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `name: Foo
author: Bar
root: series
volume_filename_template: "[NAME] v[VOLUME].pdf"
cover_size: [600, 900]
cover_policy: letterbox
min_volume_size: 0
jobs: 4
dictionary:
  - volume: 1
    first_chapter: 1
    last_chapter: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, CoverPolicyLetterbox, cfg.CoverPolicy)
	assert.Equal(t, int64(0), cfg.MinVolumeSize)
	assert.Equal(t, 4, cfg.Jobs)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", validJSON)
	t.Setenv("MANGAPDF_ROOT", "/elsewhere")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere", cfg.Root)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed json", content: `{"name": `},
		{name: "missing root", content: `{"volume_filename_template": "x", "cover_size": [1, 1]}`},
		{name: "bad cover size", content: `{"root": "r", "volume_filename_template": "x", "cover_size": [1]}`},
		{name: "inverted range", content: `{"root": "r", "volume_filename_template": "x", "cover_size": [1, 1],
			"dictionary": [{"volume": 1, "first_chapter": 5, "last_chapter": 2}]}`},
		{name: "unknown policy", content: `{"root": "r", "volume_filename_template": "x", "cover_size": [1, 1], "cover_policy": "stretch"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeFile(t, dir, "config.json", tt.content)

			_, err := Load(path)
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindConfiguration), "got %v", err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Config{CoverSize: []int{0, 10}, Jobs: -1}
	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "root")
	assert.Contains(t, msg, "volume_filename_template")
	assert.Contains(t, msg, "cover_size")
	assert.Contains(t, msg, "jobs")
}

func TestVolumeRangeContains(t *testing.T) {
	r := VolumeRange{Volume: 1, FirstChapter: 1, LastChapter: 8.5}
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(8.5))
	assert.True(t, r.Contains(4.5))
	assert.False(t, r.Contains(0.5))
	assert.False(t, r.Contains(9))
}
