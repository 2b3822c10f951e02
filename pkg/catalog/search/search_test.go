package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/catalog/store"
)

func fixture() *store.Data {
	data := store.NewData()
	data.Roots = append(data.Roots, store.RootEntry{ID: data.AllocRootID(), Path: "/data"})

	day := func(s string) int64 {
		t, _ := time.ParseInLocation("2006-01-02", s, time.Local)
		return t.Unix() + 3600 // sometime during that day
	}

	add := func(rel, ext string, size, mtime int64, isDir bool) int64 {
		id := data.AllocFileID()
		data.Files = append(data.Files, store.FileEntry{
			ID:      id,
			RootID:  1,
			RelPath: rel,
			AbsPath: "/data/" + rel,
			IsDir:   isDir,
			Size:    size,
			Mtime:   mtime,
			Ext:     ext,
			Status:  store.StatusActive,
		})
		return id
	}

	report := add("docs/report.pdf", "pdf", 5000, day("2026-03-10"), false)
	add("docs/notes.txt", "txt", 200, day("2026-03-12"), false)
	add("media/clip.mp4", "mp4", 90000, day("2026-02-01"), false)
	add("docs", "", 0, day("2026-03-12"), true)

	// One soft-deleted record that must never surface.
	gone := store.FileEntry{
		ID: data.AllocFileID(), RootID: 1, RelPath: "docs/old.pdf",
		AbsPath: "/data/docs/old.pdf", Ext: "pdf", Size: 100,
		Mtime: day("2026-03-11"), Status: store.StatusDeleted,
	}
	data.Files = append(data.Files, gone)

	tag := store.TagEntry{ID: data.AllocTagID(), Name: "work"}
	data.Tags = append(data.Tags, tag)
	data.FileTags = append(data.FileTags, store.FileTagEntry{FileID: report, TagID: tag.ID})

	return data
}

func TestSearchText(t *testing.T) {
	data := fixture()

	got, err := Search(data, Query{Text: "REPORT"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs/report.pdf", got[0].RelPath)
	assert.Equal(t, []string{"work"}, got[0].Tags)
}

func TestSearchExtAndSize(t *testing.T) {
	data := fixture()

	got, err := Search(data, Query{Ext: ".PDF"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs/report.pdf", got[0].RelPath)

	got, err = Search(data, Query{MinSize: 1000})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = Search(data, Query{MinSize: 1000, MaxSize: 10000})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs/report.pdf", got[0].RelPath)
}

func TestSearchDateRange(t *testing.T) {
	data := fixture()

	// After is inclusive of the day, before excludes the named day.
	got, err := Search(data, Query{After: "2026-03-10", Before: "2026-03-12", FilesOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs/report.pdf", got[0].RelPath)

	_, err = Search(data, Query{After: "not-a-date"})
	assert.Error(t, err)
}

func TestSearchTags(t *testing.T) {
	data := fixture()

	got, err := Search(data, Query{Tags: []string{"work"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "docs/report.pdf", got[0].RelPath)

	got, err = Search(data, Query{Tags: []string{"work", "missing"}})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSearchOrderAndLimit(t *testing.T) {
	data := fixture()

	got, err := Search(data, Query{FilesOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "docs/notes.txt", got[0].RelPath) // newest first
	assert.Equal(t, "docs/report.pdf", got[1].RelPath)
	assert.Equal(t, "media/clip.mp4", got[2].RelPath)
}

func TestRecentWindow(t *testing.T) {
	data := store.NewData()
	data.Roots = append(data.Roots, store.RootEntry{ID: data.AllocRootID(), Path: "/r"})

	now := time.Now().Unix()
	add := func(rel string, mtime int64) {
		data.Files = append(data.Files, store.FileEntry{
			ID: data.AllocFileID(), RootID: 1, RelPath: rel,
			AbsPath: "/r/" + rel, Mtime: mtime, Status: store.StatusActive,
		})
	}
	add("fresh.txt", now-86400)
	add("stale.txt", now-30*86400)

	got, err := Recent(data, 7, 20)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh.txt", got[0].RelPath)

	// A wider window admits the older file, newest first.
	got, err = Recent(data, 60, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "fresh.txt", got[0].RelPath)
	assert.Equal(t, "stale.txt", got[1].RelPath)
}

func TestSearchNeverReturnsDeleted(t *testing.T) {
	data := fixture()

	got, err := Search(data, Query{Ext: "pdf", Text: "old"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
