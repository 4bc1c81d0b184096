package notes_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/taproot/pkg/core"
	"github.com/aretw0/taproot/pkg/notes"
)

func TestMarshalMarkdownRoundTrip(t *testing.T) {
	parent := "root-id"
	original := core.Note{
		ID:        "note-1",
		Title:     "Trip checklist",
		Content:   "- passport\n- charger\n",
		CreatedAt: time.Date(2026, 2, 14, 8, 30, 0, 0, time.UTC),
		Tags:      []string{"travel", "todo"},
		ImageURIs: []string{"file:///tickets.png"},
		ParentID:  &parent,
	}

	data, err := notes.MarshalMarkdown(original)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\n"))

	parsed, err := notes.UnmarshalMarkdown(data)
	require.NoError(t, err)
	assert.Equal(t, original.ID, parsed.ID)
	assert.Equal(t, original.Title, parsed.Title)
	assert.Equal(t, original.Content, parsed.Content)
	assert.Equal(t, original.Tags, parsed.Tags)
	assert.Equal(t, original.ImageURIs, parsed.ImageURIs)
	assert.Equal(t, "root-id", parsed.Parent())
	assert.True(t, original.CreatedAt.Equal(parsed.CreatedAt))
}

func TestUnmarshalMarkdownWithoutFrontmatter(t *testing.T) {
	parsed, err := notes.UnmarshalMarkdown([]byte("just plain content\n"))
	require.NoError(t, err)
	assert.Empty(t, parsed.ID)
	assert.Equal(t, "just plain content\n", parsed.Content)
}

func TestUnmarshalMarkdownUnterminatedFrontmatter(t *testing.T) {
	_, err := notes.UnmarshalMarkdown([]byte("---\nid: broken\nno closing fence"))
	assert.Error(t, err)
}

func TestUnmarshalMarkdownBadTimestamp(t *testing.T) {
	_, err := notes.UnmarshalMarkdown([]byte("---\nid: x\ncreated: not-a-time\n---\nbody"))
	assert.Error(t, err)
}

func TestExportAll(t *testing.T) {
	s, _, _ := newTestStore(t)
	ctx := context.Background()

	seed(t, s, []core.Note{
		mkNote("root", ""),
		mkNote("child", "root"),
	})

	dir := filepath.Join(t.TempDir(), "export")
	count, err := s.ExportAll(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range []string{"root", "child"} {
		data, err := os.ReadFile(filepath.Join(dir, id+".md"))
		require.NoError(t, err)

		parsed, err := notes.UnmarshalMarkdown(data)
		require.NoError(t, err)
		assert.Equal(t, id, parsed.ID)
	}
}

func TestExportAllEmptyCollection(t *testing.T) {
	s, _, _ := newTestStore(t)

	dir := filepath.Join(t.TempDir(), "export")
	count, err := s.ExportAll(context.Background(), dir)
	require.NoError(t, err)
	assert.Zero(t, count)

	// The directory is still created for consistency.
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
