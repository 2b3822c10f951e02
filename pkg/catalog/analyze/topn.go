package analyze

import (
	"container/heap"
	"sort"
)

// Entry is one sized path in an analysis result.
type Entry struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// entryHeap is a min-heap on size so the smallest kept entry sits at
// the top, ready to be displaced. Equal sizes order by descending path
// so the lexicographically smaller path is the harder one to evict.
type entryHeap []Entry

func (h entryHeap) Len() int { return len(h) }

func (h entryHeap) Less(i, j int) bool {
	if h[i].Size != h[j].Size {
		return h[i].Size < h[j].Size
	}
	return h[i].Path > h[j].Path
}

func (h entryHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) { *h = append(*h, x.(Entry)) }

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// topN keeps the k largest entries seen so far in O(log k) per offer.
// The result matches sorting the full input by size descending, path
// ascending, and truncating to k.
type topN struct {
	k    int
	heap entryHeap
}

func newTopN(k int) *topN {
	return &topN{k: k}
}

func (t *topN) offer(path string, size int64) {
	if t.k <= 0 {
		return
	}
	if len(t.heap) < t.k {
		heap.Push(&t.heap, Entry{Path: path, Size: size})
		return
	}
	weakest := t.heap[0]
	if size < weakest.Size {
		return
	}
	if size == weakest.Size && path >= weakest.Path {
		return
	}
	t.heap[0] = Entry{Path: path, Size: size}
	heap.Fix(&t.heap, 0)
}

// drain returns the kept entries ordered by size descending, path
// ascending. The heap is consumed.
func (t *topN) drain() []Entry {
	out := make([]Entry, len(t.heap))
	copy(out, t.heap)
	t.heap = nil
	sortEntries(out)
	return out
}

// sortEntries orders by size descending, then path ascending.
func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Size != entries[j].Size {
			return entries[i].Size > entries[j].Size
		}
		return entries[i].Path < entries[j].Path
	})
}
