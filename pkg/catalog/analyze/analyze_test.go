package analyze

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

const fixtureRoot = "/data"

// feedFixture streams a small tree: a.txt 100, sub/b.txt 300,
// sub/deep/c.bin 200, plus the directory entries themselves.
func feedFixture(obs interface {
	OnFileScanned(rootPath string, file types.ScannedFile)
}) {
	files := []types.ScannedFile{
		{RelPath: "a.txt", AbsPath: fixtureRoot + "/a.txt", Size: 100},
		{RelPath: "sub", AbsPath: fixtureRoot + "/sub", IsDir: true},
		{RelPath: "sub/b.txt", AbsPath: fixtureRoot + "/sub/b.txt", Size: 300},
		{RelPath: "sub/deep", AbsPath: fixtureRoot + "/sub/deep", IsDir: true},
		{RelPath: "sub/deep/c.bin", AbsPath: fixtureRoot + "/sub/deep/c.bin", Size: 200},
	}
	for _, f := range files {
		obs.OnFileScanned(fixtureRoot, f)
	}
}

func TestAnalyzerTotals(t *testing.T) {
	a := NewAnalyzer("", 10)
	feedFixture(a)
	res := a.Finalize()

	assert.Equal(t, int64(600), res.TotalSize)
	assert.Equal(t, int64(3), res.FileCount)
	assert.Equal(t, int64(600), res.RootTotals[fixtureRoot])

	require.Len(t, res.TopFiles, 3)
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub/b.txt", Size: 300}, res.TopFiles[0])
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub/deep/c.bin", Size: 200}, res.TopFiles[1])
	assert.Equal(t, Entry{Path: fixtureRoot + "/a.txt", Size: 100}, res.TopFiles[2])

	// Directory rollup: /data 600, /data/sub 500, /data/sub/deep 200.
	require.Len(t, res.TopDirs, 3)
	assert.Equal(t, Entry{Path: fixtureRoot, Size: 600}, res.TopDirs[0])
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub", Size: 500}, res.TopDirs[1])
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub/deep", Size: 200}, res.TopDirs[2])
}

func TestAnalyzerFilterScopesAccumulation(t *testing.T) {
	a := NewAnalyzer(fixtureRoot+"/sub", 10)
	feedFixture(a)
	res := a.Finalize()

	// Only files under the filter count, and accumulation stops at it.
	assert.Equal(t, int64(500), res.TotalSize)
	assert.Equal(t, int64(2), res.FileCount)
	require.Len(t, res.TopDirs, 2)
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub", Size: 500}, res.TopDirs[0])
	assert.Equal(t, Entry{Path: fixtureRoot + "/sub/deep", Size: 200}, res.TopDirs[1])
}

func TestTopNMatchesFullSort(t *testing.T) {
	const k = 5
	rng := rand.New(rand.NewSource(42))

	var all []Entry
	top := newTopN(k)
	for i := 0; i < 200; i++ {
		e := Entry{
			Path: fmt.Sprintf("/f/%03d", i),
			Size: int64(rng.Intn(20)), // plenty of ties
		}
		all = append(all, e)
		top.offer(e.Path, e.Size)
	}

	sortEntries(all)
	assert.Equal(t, all[:k], top.drain())
}

func TestTopNTieBreaksAscendingPath(t *testing.T) {
	top := newTopN(2)
	top.offer("/c", 10)
	top.offer("/b", 10)
	top.offer("/a", 10)

	got := top.drain()
	require.Len(t, got, 2)
	assert.Equal(t, "/a", got[0].Path)
	assert.Equal(t, "/b", got[1].Path)
}

func TestAccumulateUpward(t *testing.T) {
	var dirs []string
	accumulateUpward("/data/sub/deep/c.bin", "/data", func(dir string) {
		dirs = append(dirs, dir)
	})
	assert.Equal(t, []string{"/data/sub/deep", "/data/sub", "/data"}, dirs)

	// A file outside the limit contributes nothing.
	dirs = nil
	accumulateUpward("/elsewhere/x", "/data", func(dir string) {
		dirs = append(dirs, dir)
	})
	assert.Empty(t, dirs)
}

func TestBrowseIndex(t *testing.T) {
	b := NewBrowseBuilder("")
	feedFixture(b)
	idx := b.Finalize()

	roots := idx.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, BrowseEntry{Path: fixtureRoot, Size: 600, IsDir: true}, roots[0])

	children := idx.ChildrenFor(fixtureRoot)
	require.Len(t, children, 2)
	assert.Equal(t, BrowseEntry{Path: fixtureRoot + "/sub", Size: 500, IsDir: true}, children[0])
	assert.Equal(t, BrowseEntry{Path: fixtureRoot + "/a.txt", Size: 100, IsDir: false}, children[1])

	sub := idx.ChildrenFor(fixtureRoot + "/sub")
	require.Len(t, sub, 2)
	assert.Equal(t, fixtureRoot+"/sub/b.txt", sub[0].Path)
	assert.Equal(t, fixtureRoot+"/sub/deep", sub[1].Path)

	assert.Equal(t, int64(500), idx.TotalFor(fixtureRoot+"/sub"))
	assert.Equal(t, int64(200), idx.TotalFor(fixtureRoot+"/sub/deep"))
	assert.Nil(t, idx.ChildrenFor("/nowhere"))
}

func TestBrowseIndexListsEmptyRoots(t *testing.T) {
	b := NewBrowseBuilder("")
	feedFixture(b)
	b.OnRootFinished(fixtureRoot)
	b.OnRootFinished("/empty")
	idx := b.Finalize()

	roots := idx.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, BrowseEntry{Path: fixtureRoot, Size: 600, IsDir: true}, roots[0])
	assert.Equal(t, BrowseEntry{Path: "/empty", Size: 0, IsDir: true}, roots[1])
	assert.Nil(t, idx.ChildrenFor("/empty"))
}

func TestBrowseFromStoreSeedsConfiguredRoots(t *testing.T) {
	data := store.NewData()
	data.Roots = append(data.Roots,
		store.RootEntry{ID: data.AllocRootID(), Path: fixtureRoot},
		store.RootEntry{ID: data.AllocRootID(), Path: "/empty"},
	)
	data.Files = append(data.Files, store.FileEntry{
		ID: data.AllocFileID(), RootID: 1, RelPath: "a.txt",
		AbsPath: fixtureRoot + "/a.txt", Size: 100, Status: store.StatusActive,
	})

	idx := BrowseFromStore(data, "")
	roots := idx.Roots()
	require.Len(t, roots, 2)
	assert.Equal(t, fixtureRoot, roots[0].Path)
	assert.Equal(t, "/empty", roots[1].Path)

	// A filter scopes the entry points to its boundary and drops
	// disjoint roots entirely.
	idx = BrowseFromStore(data, fixtureRoot+"/sub")
	roots = idx.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, fixtureRoot+"/sub", roots[0].Path)
}

func TestFromStoreSkipsDeleted(t *testing.T) {
	data := store.NewData()
	data.Roots = append(data.Roots, store.RootEntry{ID: data.AllocRootID(), Path: fixtureRoot})

	add := func(rel string, size int64, status string) {
		data.Files = append(data.Files, store.FileEntry{
			ID:      data.AllocFileID(),
			RootID:  1,
			RelPath: rel,
			AbsPath: filepath.Join(fixtureRoot, rel),
			Size:    size,
			Status:  status,
		})
	}
	add("keep.txt", 100, store.StatusActive)
	add("gone.txt", 900, store.StatusDeleted)

	res := FromStore(data, "", 10)
	assert.Equal(t, int64(100), res.TotalSize)
	assert.Equal(t, int64(1), res.FileCount)
	require.Len(t, res.TopFiles, 1)
	assert.Equal(t, fixtureRoot+"/keep.txt", res.TopFiles[0].Path)
}
