package roots

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
)

func TestAddSkipsMissingAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	canonical, err := config.NormalizePath(dir)
	require.NoError(t, err)

	cfg := config.Default()
	added, err := Add(cfg, []string{dir, dir, filepath.Join(dir, "no-such")})
	require.NoError(t, err)

	assert.Equal(t, 1, added)
	assert.Equal(t, []string{canonical}, cfg.Roots)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	canonical, err := config.NormalizePath(dir)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Roots = []string{canonical, "/keep/me"}

	removed, err := Remove(cfg, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"/keep/me"}, cfg.Roots)
}

func TestSyncAddsAndRefreshes(t *testing.T) {
	data := store.NewData()
	cfg := config.Default()
	cfg.Roots = []string{"/a", "/b"}
	cfg.OneFilesystem = false

	Sync(data, cfg, "home")
	require.Len(t, data.Roots, 2)
	assert.Equal(t, int64(1), data.Roots[0].ID)
	assert.Equal(t, int64(2), data.Roots[1].ID)
	assert.Equal(t, "home", data.Roots[0].PresetName)
	assert.False(t, data.Roots[0].OneFilesystem)

	// Re-sync keeps ids stable and refreshes the flag.
	cfg.OneFilesystem = true
	Sync(data, cfg, "home")
	require.Len(t, data.Roots, 2)
	assert.Equal(t, int64(1), data.Roots[0].ID)
	assert.True(t, data.Roots[0].OneFilesystem)
}

func TestSyncCascadingDelete(t *testing.T) {
	data := store.NewData()
	cfg := config.Default()
	cfg.Roots = []string{"/a", "/b"}
	Sync(data, cfg, "")

	aID := data.RootByPath("/a").ID
	bID := data.RootByPath("/b").ID

	fa := store.FileEntry{ID: data.AllocFileID(), RootID: aID, RelPath: "x.txt"}
	fb := store.FileEntry{ID: data.AllocFileID(), RootID: bID, RelPath: "y.txt"}
	data.Files = append(data.Files, fa, fb)

	shared := store.TagEntry{ID: data.AllocTagID(), Name: "shared"}
	only := store.TagEntry{ID: data.AllocTagID(), Name: "only-a"}
	data.Tags = append(data.Tags, shared, only)
	data.FileTags = append(data.FileTags,
		store.FileTagEntry{FileID: fa.ID, TagID: shared.ID},
		store.FileTagEntry{FileID: fb.ID, TagID: shared.ID},
		store.FileTagEntry{FileID: fa.ID, TagID: only.ID},
	)

	cfg.Roots = []string{"/b"}
	Sync(data, cfg, "")

	require.Len(t, data.Roots, 1)
	assert.Equal(t, "/b", data.Roots[0].Path)

	require.Len(t, data.Files, 1)
	assert.Equal(t, fb.ID, data.Files[0].ID)

	// Tag references for removed files are gone, and the tag used
	// only by /a's file is pruned.
	require.Len(t, data.FileTags, 1)
	assert.Equal(t, fb.ID, data.FileTags[0].FileID)
	require.Len(t, data.Tags, 1)
	assert.Equal(t, "shared", data.Tags[0].Name)
}
