package output

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/search"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/tags"
	"catalog/pkg/catalog/types"
)

func TestRegistry(t *testing.T) {
	assert.Equal(t, []string{"json", "plain"}, Available())

	f, err := Get("plain")
	require.NoError(t, err)
	assert.IsType(t, &plainFormatter{}, f)

	_, err = Get("yaml")
	assert.Error(t, err)
}

func TestPlainEntries(t *testing.T) {
	f, err := Get("plain")
	require.NoError(t, err)

	entries := []search.Entry{
		{ID: 7, AbsPath: "/data/a.txt", Size: 2048, Mtime: time.Now().Unix(), Tags: []string{"work"}},
	}
	var buf bytes.Buffer
	require.NoError(t, f.Entries(&buf, entries))

	out := buf.String()
	assert.Contains(t, out, "/data/a.txt")
	assert.Contains(t, out, "[work]")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "1 matches.")
}

func TestPlainEntriesEmpty(t *testing.T) {
	f, _ := Get("plain")
	var buf bytes.Buffer
	require.NoError(t, f.Entries(&buf, nil))
	assert.Contains(t, buf.String(), "No matches.")
}

func TestPlainReport(t *testing.T) {
	f, _ := Get("plain")
	res := analyze.Result{
		TotalSize:  600,
		FileCount:  3,
		RootTotals: map[string]int64{"/data": 600},
		TopDirs:    []analyze.Entry{{Path: "/data/sub", Size: 500}},
		TopFiles:   []analyze.Entry{{Path: "/data/sub/b.txt", Size: 300}},
	}
	var buf bytes.Buffer
	require.NoError(t, f.Report(&buf, res))

	out := buf.String()
	assert.Contains(t, out, "600 B in 3 files")
	assert.Contains(t, out, "Largest directories:")
	assert.Contains(t, out, "/data/sub/b.txt")
}

func TestPlainStats(t *testing.T) {
	f, _ := Get("plain")
	var buf bytes.Buffer
	require.NoError(t, f.Stats(&buf, types.IndexStats{
		Seen: 10, Updated: 10, Deleted: 2,
		PermissionSkips: 1,
		WalkErrors:      1, WalkErrorSample: "/x: denied",
		MissingRoots: []string{"/gone"},
	}))

	out := buf.String()
	assert.Contains(t, out, "Indexed 10 entries")
	assert.Contains(t, out, "permission denied")
	assert.Contains(t, out, "/x: denied")
	assert.Contains(t, out, "Root missing, skipped: /gone")
}

func TestJSONEntries(t *testing.T) {
	f, err := Get("json")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, f.Entries(&buf, []search.Entry{{ID: 1, RelPath: "a.txt"}}))

	var decoded []search.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "a.txt", decoded[0].RelPath)

	// nil renders as an empty array, not null.
	buf.Reset()
	require.NoError(t, f.Entries(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestJSONTagsAndRoots(t *testing.T) {
	f, _ := Get("json")

	var buf bytes.Buffer
	require.NoError(t, f.Tags(&buf, []tags.TagCount{{Name: "work", Count: 2}}))
	assert.Contains(t, buf.String(), `"work"`)

	buf.Reset()
	data := store.NewData()
	data.Roots = append(data.Roots, store.RootEntry{ID: 1, Path: "/data"})
	require.NoError(t, f.Roots(&buf, data))
	assert.Contains(t, buf.String(), `"/data"`)
}
