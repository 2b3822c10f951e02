package analyze

import (
	"sort"

	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

// BrowseEntry is one child in the hierarchical view.
type BrowseEntry struct {
	Path  string `json:"path"`
	Size  int64  `json:"size"`
	IsDir bool   `json:"is_dir"`
}

// BrowseIndex is a finished parent-to-children rollup for interactive
// drill-down. Lookups are O(1) on the parent path.
type BrowseIndex struct {
	children map[string][]BrowseEntry
	totals   map[string]int64
	roots    []BrowseEntry
}

// ChildrenFor returns the direct children of a directory, largest
// first, ties broken by ascending path. Unknown paths yield nil.
func (idx *BrowseIndex) ChildrenFor(path string) []BrowseEntry {
	return idx.children[path]
}

// TotalFor returns a directory's recursive size. Unknown paths are 0.
func (idx *BrowseIndex) TotalFor(path string) int64 {
	return idx.totals[path]
}

// Roots returns the top-level entry points of the index, one per scan
// root (or one for the filter), largest first.
func (idx *BrowseIndex) Roots() []BrowseEntry {
	return idx.roots
}

// BrowseBuilder accumulates the hierarchical rollup from the event
// stream. It shares the Analyzer's scoping rules so the two views of
// one run always agree.
type BrowseBuilder struct {
	filter string

	childSizes map[string]map[string]childInfo
	totals     map[string]int64
	scopes     map[string]bool
}

type childInfo struct {
	size  int64
	isDir bool
}

// NewBrowseBuilder creates a builder. filter has the same meaning as
// for NewAnalyzer.
func NewBrowseBuilder(filter string) *BrowseBuilder {
	return &BrowseBuilder{
		filter:     filter,
		childSizes: make(map[string]map[string]childInfo),
		totals:     make(map[string]int64),
		scopes:     make(map[string]bool),
	}
}

// OnFileScanned ingests one entry into the rollup.
func (b *BrowseBuilder) OnFileScanned(rootPath string, file types.ScannedFile) {
	if file.IsDir || file.IsSymlink {
		return
	}
	if b.filter != "" && !underPath(b.filter, file.AbsPath) {
		return
	}

	limit := scopeBoundary(rootPath, b.filter, file.AbsPath)
	b.scopes[limit] = true
	b.totals[limit] += file.Size

	// Attribute the file to its parent, then roll each directory up
	// into its own parent until the scope boundary.
	child := file.AbsPath
	isDir := false
	accumulateUpward(file.AbsPath, limit, func(dir string) {
		b.addChild(dir, child, file.Size, isDir)
		if dir != limit {
			b.totals[dir] += file.Size
		}
		child = dir
		isDir = true
	})
}

func (b *BrowseBuilder) addChild(parent, child string, size int64, isDir bool) {
	m := b.childSizes[parent]
	if m == nil {
		m = make(map[string]childInfo)
		b.childSizes[parent] = m
	}
	info := m[child]
	info.size += size
	info.isDir = isDir
	m[child] = info
}

// OnRootFinished registers the root as a browse entry point, so roots
// holding no accepted files still appear in the final index.
func (b *BrowseBuilder) OnRootFinished(rootPath string) {
	if b.filter == "" {
		b.scopes[rootPath] = true
		return
	}
	// Under a filter every surviving file scopes to the filter boundary;
	// roots disjoint from it contribute nothing at all.
	if underPath(b.filter, rootPath) || underPath(rootPath, b.filter) {
		b.scopes[b.filter] = true
	}
}

// Finalize sorts every child list and returns the immutable index.
func (b *BrowseBuilder) Finalize() *BrowseIndex {
	children := make(map[string][]BrowseEntry, len(b.childSizes))
	for parent, m := range b.childSizes {
		list := make([]BrowseEntry, 0, len(m))
		for path, info := range m {
			list = append(list, BrowseEntry{Path: path, Size: info.size, IsDir: info.isDir})
		}
		sortBrowseEntries(list)
		children[parent] = list
	}

	roots := make([]BrowseEntry, 0, len(b.scopes))
	for scope := range b.scopes {
		roots = append(roots, BrowseEntry{Path: scope, Size: b.totals[scope], IsDir: true})
	}
	sortBrowseEntries(roots)

	return &BrowseIndex{children: children, totals: b.totals, roots: roots}
}

// sortBrowseEntries orders by size descending, then path ascending.
func sortBrowseEntries(entries []BrowseEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Path < entries[j].Path
	})
}

// BrowseFromStore replays the active inventory into a fresh builder.
// Every configured root is seeded as an entry point, empty or not.
func BrowseFromStore(data *store.Data, filter string) *BrowseIndex {
	b := NewBrowseBuilder(filter)
	for _, r := range data.Roots {
		b.OnRootFinished(r.Path)
	}
	replay(data, b)
	return b.Finalize()
}
