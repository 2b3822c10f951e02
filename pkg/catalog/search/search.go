// Package search queries the stored inventory. It only ever sees
// active records; soft-deleted files are invisible to every query.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog/pkg/catalog/store"
)

// dateLayout is the accepted format for the date filters.
const dateLayout = "2006-01-02"

// Query narrows a search. Zero values leave their dimension
// unconstrained.
type Query struct {
	// Text is a case-insensitive substring match on the absolute path.
	Text string

	// Ext matches the stored extension, compared lowercase without a
	// leading dot.
	Ext string

	// Tags requires every named tag to be attached to the file.
	Tags []string

	// After keeps files modified on or after this date (YYYY-MM-DD).
	After string

	// Before keeps files modified strictly before this date, so the
	// named day itself is excluded.
	Before string

	// MinSize and MaxSize bound the file size in bytes. Zero means
	// unbounded.
	MinSize int64
	MaxSize int64

	// MtimeAfter keeps files modified at or after this Unix timestamp.
	// Zero means unbounded. Unlike After it is an exact instant, not a
	// day boundary.
	MtimeAfter int64

	// Root restricts results to one root path.
	Root string

	// Limit caps the result count. Zero means no cap.
	Limit int

	// DirsOnly / FilesOnly restrict the entry kind.
	DirsOnly  bool
	FilesOnly bool
}

// Entry is one search hit.
type Entry struct {
	ID       int64    `json:"id"`
	RootPath string   `json:"root_path"`
	RelPath  string   `json:"rel_path"`
	AbsPath  string   `json:"abs_path"`
	IsDir    bool     `json:"is_dir"`
	Size     int64    `json:"size"`
	Mtime    int64    `json:"mtime"`
	Ext      string   `json:"ext,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Search runs the query and returns hits ordered by modification time,
// newest first, ties broken by ascending path. A malformed date filter
// is an error.
func Search(data *store.Data, q Query) ([]Entry, error) {
	var afterTS, beforeTS int64
	hasAfter, hasBefore := q.After != "", q.Before != ""
	if hasAfter {
		ts, err := parseDate(q.After)
		if err != nil {
			return nil, err
		}
		afterTS = ts
	}
	if hasBefore {
		ts, err := parseDate(q.Before)
		if err != nil {
			return nil, err
		}
		beforeTS = ts
	}

	text := strings.ToLower(q.Text)
	ext := strings.ToLower(strings.TrimPrefix(q.Ext, "."))

	rootPaths := make(map[int64]string, len(data.Roots))
	for _, r := range data.Roots {
		rootPaths[r.ID] = r.Path
	}
	fileTags := tagNamesByFile(data)

	var out []Entry
	for i := range data.Files {
		f := &data.Files[i]
		if f.Status != store.StatusActive {
			continue
		}
		if q.DirsOnly && !f.IsDir {
			continue
		}
		if q.FilesOnly && f.IsDir {
			continue
		}
		if text != "" && !strings.Contains(strings.ToLower(f.AbsPath), text) {
			continue
		}
		if ext != "" && f.Ext != ext {
			continue
		}
		if hasAfter && f.Mtime < afterTS {
			continue
		}
		if hasBefore && f.Mtime >= beforeTS {
			continue
		}
		if q.MtimeAfter > 0 && f.Mtime < q.MtimeAfter {
			continue
		}
		if q.MinSize > 0 && f.Size < q.MinSize {
			continue
		}
		if q.MaxSize > 0 && f.Size > q.MaxSize {
			continue
		}
		rootPath := rootPaths[f.RootID]
		if q.Root != "" && rootPath != q.Root {
			continue
		}
		tags := fileTags[f.ID]
		if !hasAllTags(tags, q.Tags) {
			continue
		}

		out = append(out, Entry{
			ID:       f.ID,
			RootPath: rootPath,
			RelPath:  f.RelPath,
			AbsPath:  f.AbsPath,
			IsDir:    f.IsDir,
			Size:     f.Size,
			Mtime:    f.Mtime,
			Ext:      f.Ext,
			Tags:     tags,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Mtime != out[j].Mtime {
			return out[i].Mtime > out[j].Mtime
		}
		return out[i].AbsPath < out[j].AbsPath
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Recent returns active files modified within the last days days,
// newest first.
func Recent(data *store.Data, days, limit int) ([]Entry, error) {
	cutoff := time.Now().Unix() - int64(days)*86400
	return Search(data, Query{FilesOnly: true, MtimeAfter: cutoff, Limit: limit})
}

// parseDate returns the Unix timestamp of local midnight on the given
// day.
func parseDate(s string) (int64, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t.Unix(), nil
}

// tagNamesByFile builds sorted tag name lists keyed by file id.
func tagNamesByFile(data *store.Data) map[int64][]string {
	names := make(map[int64]string, len(data.Tags))
	for _, t := range data.Tags {
		names[t.ID] = t.Name
	}

	out := make(map[int64][]string)
	for _, ft := range data.FileTags {
		if name, ok := names[ft.TagID]; ok {
			out[ft.FileID] = append(out[ft.FileID], name)
		}
	}
	for id := range out {
		sort.Strings(out[id])
	}
	return out
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
