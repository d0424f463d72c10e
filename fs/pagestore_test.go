package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/deepcrawl"
	"github.com/fwojciec/deepcrawl/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
}

func TestFileStore_SaveWritesToTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output")

	err := store.Save(context.Background(), &deepcrawl.Page{
		URL:     "https://example.com/docs/api",
		Title:   "API Reference",
		Content: "# API",
	})

	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output.tmp", "docs", "api.md"))
	require.NoError(t, err, "file should exist in temp directory")
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err), "final directory should not exist until commit")
}

func TestFileStore_CommitMovesFromTempToFinal(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output")
	require.NoError(t, store.Save(context.Background(), &deepcrawl.Page{URL: "https://example.com/a", Content: "# A"}))

	require.NoError(t, store.Commit())

	_, err := os.Stat(filepath.Join(base, "output", "a.md"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, filepath.Join(base, "output"), store.Dir())
}

func TestFileStore_CommitReplacesPreviousExport(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	first := fs.NewFileStore(base, "output")
	require.NoError(t, first.Save(context.Background(), &deepcrawl.Page{URL: "https://example.com/old", Content: "old"}))
	require.NoError(t, first.Commit())

	second := fs.NewFileStore(base, "output")
	require.NoError(t, second.Save(context.Background(), &deepcrawl.Page{URL: "https://example.com/new", Content: "new"}))
	require.NoError(t, second.Commit())

	_, err := os.Stat(filepath.Join(base, "output", "old.md"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "output", "new.md"))
	assert.NoError(t, err)
}

func TestFileStore_CommitWithoutPagesCreatesEmptyDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output")

	require.NoError(t, store.Commit())

	entries, err := os.ReadDir(filepath.Join(base, "output"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStore_AbortCleansUpTempDirectory(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output")
	require.NoError(t, store.Save(context.Background(), &deepcrawl.Page{URL: "https://example.com/a", Content: "# A"}))

	require.NoError(t, store.Abort())

	_, err := os.Stat(filepath.Join(base, "output.tmp"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(base, "output"))
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_IncludesFrontmatter(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	store := fs.NewFileStore(base, "output", fs.WithClock(fixedClock))
	require.NoError(t, store.Save(context.Background(), &deepcrawl.Page{
		URL:     "https://example.com/intro",
		Title:   "Introduction: Getting Started",
		Content: "# Welcome",
		Depth:   2,
		Score:   0.35,
	}))
	require.NoError(t, store.Commit())

	content, err := os.ReadFile(filepath.Join(base, "output", "intro.md"))
	require.NoError(t, err)

	parts := strings.SplitN(string(content), "---\n", 3)
	require.Len(t, parts, 3)
	assert.Empty(t, parts[0])
	assert.Equal(t, "\n# Welcome", parts[2])

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "https://example.com/intro", fm["source"])
	assert.Equal(t, "Introduction: Getting Started", fm["title"])
	assert.Equal(t, 2, fm["depth"])
	assert.Equal(t, 0.35, fm["score"])
	assert.Equal(t, "2026-03-14", fm["crawled"])
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(t.TempDir(), "output")

	err := store.Save(context.Background(), &deepcrawl.Page{
		URL:     "https://example.com/../../../etc/passwd",
		Content: "bad content",
	})

	require.Error(t, err)
	assert.Equal(t, deepcrawl.EINVALID, deepcrawl.ErrorCode(err))
	assert.Contains(t, err.Error(), "path traversal")
}

func TestFileStore_SaveRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fs.NewFileStore(t.TempDir(), "output").Save(ctx, &deepcrawl.Page{URL: "https://example.com/a"})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"root becomes index", "https://example.com", "index.md"},
		{"root slash becomes index", "https://example.com/", "index.md"},
		{"nested path", "https://example.com/docs/api/users", "docs/api/users.md"},
		{"trailing slash becomes directory index", "https://example.com/docs/", "docs/index.md"},
		{"fragment ignored", "https://example.com/docs#intro", "docs.md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("query strings map to distinct files", func(t *testing.T) {
		t.Parallel()

		a, err := fs.URLToPath("https://example.com/search?q=a")
		require.NoError(t, err)
		b, err := fs.URLToPath("https://example.com/search?q=b")
		require.NoError(t, err)

		assert.NotEqual(t, a, b)
		assert.Regexp(t, `^search-[0-9a-f]+\.md$`, a)
	})
}
