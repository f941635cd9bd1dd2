package series

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ygunayer/mangapdf/internal/errs"
)

func mkdir(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0o755))
}

func touch(t *testing.T, root, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644))
}

func TestParseChapterNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "integer", input: "Chapter 1 - A", want: 1},
		{name: "multi digit", input: "Chapter 120 - The End", want: 120},
		{name: "fractional", input: "Chapter 10.5 - Extra", want: 10.5},
		{name: "leading zeros", input: "Chapter 007 - Bond", want: 7},
		{name: "title with hyphens", input: "Chapter 4 - Part - Two", want: 4},
		{name: "pdf suffix", input: "Chapter 3 - Title.pdf", want: 3},
		{name: "empty title", input: "Chapter 2 - ", want: 2},
		{name: "no separator", input: "Chapter 5", wantErr: true},
		{name: "no number", input: "Chapter X - Title", wantErr: true},
		{name: "wrong prefix", input: "Ch 1 - A", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseChapterNumber(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errs.KindParse, errs.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscoverSortsByNumber(t *testing.T) {
	root := t.TempDir()
	// lexical order differs from numeric order
	for _, name := range []string{"Chapter 10 - J", "Chapter 2 - B", "Chapter 1 - A", "Chapter 1.5 - Extra", "Chapter 100 - Z"} {
		mkdir(t, root, name)
	}

	catalog, err := Discover(root)
	require.NoError(t, err)

	numbers := make([]float64, 0, len(catalog.Chapters))
	for _, c := range catalog.Chapters {
		numbers = append(numbers, c.Number)
	}
	assert.Equal(t, []float64{1, 1.5, 2, 10, 100}, numbers)
	assert.Empty(t, catalog.Rejected)
}

func TestDiscoverExportPaths(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "Chapter 1 - A")
	mkdir(t, root, "Chapter 2 - B")
	touch(t, root, "Chapter 1 - A.pdf")

	catalog, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, catalog.Chapters, 2)

	first, second := catalog.Chapters[0], catalog.Chapters[1]
	assert.Equal(t, filepath.Join(root, "Chapter 1 - A.pdf"), first.PDFPath)
	assert.True(t, first.IsExported())
	assert.Equal(t, filepath.Join(root, "Chapter 1 - A"), first.FolderPath)

	assert.False(t, second.IsExported())
	assert.Empty(t, second.PDFPath)
}

func TestDiscoverPDFOnlyChapters(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "Chapter 2 - B")
	touch(t, root, "Chapter 1 - A.pdf")

	catalog, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, catalog.Chapters, 2)

	pdfOnly := catalog.Chapters[0]
	assert.Equal(t, 1.0, pdfOnly.Number)
	assert.Equal(t, "Chapter 1 - A", pdfOnly.Name)
	assert.False(t, pdfOnly.HasFolder())
	assert.True(t, pdfOnly.IsExported())
}

func TestDiscoverRejectsAndIgnores(t *testing.T) {
	root := t.TempDir()
	mkdir(t, root, "Chapter 1 - A")
	mkdir(t, root, "Chapter One")
	mkdir(t, root, "covers")
	touch(t, root, "notes.txt")
	touch(t, root, "Series Vol.1.pdf")

	catalog, err := Discover(root)
	require.NoError(t, err)

	require.Len(t, catalog.Chapters, 1)
	require.Len(t, catalog.Rejected, 1)
	assert.Equal(t, "Chapter One", catalog.Rejected[0].Name)
	assert.Equal(t, errs.KindParse, errs.KindOf(catalog.Rejected[0].Err))
}

func TestDiscoverMissingRoot(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, errs.KindMissingFile, errs.KindOf(err))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(3.0))
	assert.Equal(t, "3.5", FormatNumber(3.5))
	assert.Equal(t, "10", FormatNumber(10))
	assert.Equal(t, "0.25", FormatNumber(0.25))
}
