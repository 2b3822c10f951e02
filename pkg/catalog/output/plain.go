package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/search"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/tags"
	"catalog/pkg/catalog/types"
)

// plainFormatter renders fixed-width text columns.
type plainFormatter struct{}

func (p *plainFormatter) Entries(w io.Writer, entries []search.Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}

	fmt.Fprintf(w, "%-6s  %-10s  %-12s  %s\n", "ID", "SIZE", "MODIFIED", "PATH")
	for _, e := range entries {
		modified := humanize.Time(time.Unix(e.Mtime, 0))
		path := e.AbsPath
		if len(e.Tags) > 0 {
			path += "  [" + strings.Join(e.Tags, ", ") + "]"
		}
		fmt.Fprintf(w, "%-6d  %-10s  %-12s  %s\n",
			e.ID, types.FormatSize(e.Size), modified, path)
	}
	fmt.Fprintf(w, "\n%d matches.\n", len(entries))
	return nil
}

func (p *plainFormatter) Report(w io.Writer, res analyze.Result) error {
	fmt.Fprintf(w, "Total: %s in %d files\n",
		types.FormatSize(res.TotalSize), res.FileCount)

	if len(res.RootTotals) > 1 {
		fmt.Fprintln(w)
		for _, root := range sortedKeys(res.RootTotals) {
			fmt.Fprintf(w, "  %-12s  %s\n", types.FormatSize(res.RootTotals[root]), root)
		}
	}

	if len(res.TopDirs) > 0 {
		fmt.Fprintf(w, "\nLargest directories:\n")
		for _, e := range res.TopDirs {
			fmt.Fprintf(w, "  %-12s  %s\n", types.FormatSize(e.Size), e.Path)
		}
	}
	if len(res.TopFiles) > 0 {
		fmt.Fprintf(w, "\nLargest files:\n")
		for _, e := range res.TopFiles {
			fmt.Fprintf(w, "  %-12s  %s\n", types.FormatSize(e.Size), e.Path)
		}
	}
	return nil
}

func (p *plainFormatter) Roots(w io.Writer, data *store.Data) error {
	if len(data.Roots) == 0 {
		fmt.Fprintln(w, "No roots configured. Add one with: catalog roots add <path>")
		return nil
	}

	active := make(map[int64]int)
	for _, f := range data.Files {
		if f.Status == store.StatusActive {
			active[f.RootID]++
		}
	}

	fmt.Fprintf(w, "%-4s  %-8s  %-20s  %s\n", "ID", "FILES", "LAST INDEXED", "PATH")
	for _, r := range data.Roots {
		last := r.LastIndexedAt
		if last == "" {
			last = "never"
		} else if t, err := time.Parse(time.RFC3339, last); err == nil {
			last = humanize.Time(t)
		}
		fmt.Fprintf(w, "%-4d  %-8d  %-20s  %s\n", r.ID, active[r.ID], last, r.Path)
	}
	return nil
}

func (p *plainFormatter) Tags(w io.Writer, counts []tags.TagCount) error {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No tags.")
		return nil
	}
	fmt.Fprintf(w, "%-8s  %s\n", "FILES", "TAG")
	for _, tc := range counts {
		fmt.Fprintf(w, "%-8d  %s\n", tc.Count, tc.Name)
	}
	return nil
}

func (p *plainFormatter) Stats(w io.Writer, stats types.IndexStats) error {
	fmt.Fprintf(w, "Indexed %d entries (%d updated, %d deleted)\n",
		stats.Seen, stats.Updated, stats.Deleted)
	if stats.Skipped > 0 || stats.PermissionSkips > 0 {
		fmt.Fprintf(w, "Skipped %d entries (%d permission denied)\n",
			stats.Skipped+stats.PermissionSkips, stats.PermissionSkips)
	}
	if stats.WalkErrors > 0 {
		fmt.Fprintf(w, "%d walk errors, e.g. %s\n", stats.WalkErrors, stats.WalkErrorSample)
	}
	for _, root := range stats.MissingRoots {
		fmt.Fprintf(w, "Root missing, skipped: %s\n", root)
	}
	return nil
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
