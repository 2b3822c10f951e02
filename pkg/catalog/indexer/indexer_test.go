package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	canonical, err := config.NormalizePath(root)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Roots = []string{canonical}
	cfg.Excludes = nil
	cfg.IncludeHidden = true
	return cfg
}

func findFile(data *store.Data, rel string) *store.FileEntry {
	for i := range data.Files {
		if data.Files[i].RelPath == rel {
			return &data.Files[i]
		}
	}
	return nil
}

func TestRunIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "abc")
	writeFile(t, dir, "sub/b.txt", "hello")

	cfg := testConfig(t, dir)
	data := store.NewData()

	stats, err := Run(data, cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Seen) // a.txt, sub, sub/b.txt
	assert.Equal(t, 3, stats.Updated)
	assert.Equal(t, 0, stats.Deleted)
	require.Len(t, data.Files, 3)

	idA := findFile(data, "a.txt").ID
	idB := findFile(data, "sub/b.txt").ID

	stats, err = Run(data, cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Seen)
	require.Len(t, data.Files, 3)
	assert.Equal(t, idA, findFile(data, "a.txt").ID)
	assert.Equal(t, idB, findFile(data, "sub/b.txt").ID)
}

func TestRunSoftDeleteAndReactivate(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "abc")
	writeFile(t, dir, "b.txt", "defgh")

	cfg := testConfig(t, dir)
	data := store.NewData()

	_, err := Run(data, cfg, Options{})
	require.NoError(t, err)
	idB := findFile(data, "b.txt").ID

	require.NoError(t, os.Remove(filepath.Join(dir, "b.txt")))
	stats, err := Run(data, cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)

	b := findFile(data, "b.txt")
	require.NotNil(t, b, "soft-deleted record stays in the inventory")
	assert.Equal(t, store.StatusDeleted, b.Status)
	assert.Equal(t, idB, b.ID)

	// The file comes back; the record reactivates with its id intact.
	writeFile(t, dir, "b.txt", "defgh")
	_, err = Run(data, cfg, Options{})
	require.NoError(t, err)

	b = findFile(data, "b.txt")
	assert.Equal(t, store.StatusActive, b.Status)
	assert.Equal(t, idB, b.ID)
}

func TestRunFullRescan(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "abc")
	writeFile(t, dir, "b.txt", "defgh")

	cfg := testConfig(t, dir)
	data := store.NewData()

	_, err := Run(data, cfg, Options{})
	require.NoError(t, err)

	// Full rescan with nothing changed leaves everything active.
	stats, err := Run(data, cfg, Options{Full: true})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Deleted)
	assert.Equal(t, store.StatusActive, findFile(data, "a.txt").Status)
	assert.Equal(t, store.StatusActive, findFile(data, "b.txt").Status)

	require.NoError(t, os.Remove(filepath.Join(dir, "a.txt")))
	stats, err = Run(data, cfg, Options{Full: true})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Deleted)
	assert.Equal(t, store.StatusDeleted, findFile(data, "a.txt").Status)
}

func TestRunMissingRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "abc")

	cfg := testConfig(t, dir)
	data := store.NewData()
	_, err := Run(data, cfg, Options{})
	require.NoError(t, err)

	// Simulate the root vanishing between runs. Sync keeps the record
	// because the root is still configured.
	missing := cfg.Roots[0] + "-gone"
	data.Roots[0].Path = missing
	cfg.Roots = []string{missing}

	stats, err := Run(data, cfg, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{missing}, stats.MissingRoots)
	assert.Equal(t, 0, stats.Seen)

	// Records of the missing root are untouched.
	a := findFile(data, "a.txt")
	require.NotNil(t, a)
	assert.Equal(t, store.StatusActive, a.Status)
}

type recordingObserver struct {
	files    []string
	finished []string
}

func (r *recordingObserver) OnFileScanned(_ string, f types.ScannedFile) {
	r.files = append(r.files, f.RelPath)
}

func (r *recordingObserver) OnRootFinished(rootPath string) {
	r.finished = append(r.finished, rootPath)
}

func TestRunObservers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "abc")
	writeFile(t, dir, "sub/b.txt", "hello")

	cfg := testConfig(t, dir)
	data := store.NewData()
	obs := &recordingObserver{}

	var progress int
	_, err := Run(data, cfg, Options{
		Observers:  []Observer{obs},
		OnProgress: func(seen int) { progress = seen },
	})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"a.txt", "sub", "sub/b.txt"}, obs.files)
	assert.Equal(t, []string{cfg.Roots[0]}, obs.finished)
	assert.Equal(t, 3, progress)
}

func TestMergerCreatedCounter(t *testing.T) {
	data := store.NewData()
	data.Roots = append(data.Roots, store.RootEntry{ID: data.AllocRootID(), Path: "/r"})

	m := newMerger(data, 1, 1, false)
	m.apply(types.ScannedFile{RelPath: "a", AbsPath: "/r/a", Size: 10})
	m.apply(types.ScannedFile{RelPath: "a", AbsPath: "/r/a", Size: 12})
	m.apply(types.ScannedFile{RelPath: "b", AbsPath: "/r/b", Size: 5})

	assert.Equal(t, 3, m.seen)
	assert.Equal(t, 2, m.created)
	assert.Equal(t, 12, int(findFile(data, "a").Size))
}
