// Package analyze builds usage reports from the scan event stream. Both
// aggregators are observers: they see each file exactly once during an
// index run, or replay the stored inventory for offline reports.
package analyze

import (
	"catalog/pkg/catalog/logging"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

// progressEvery is how many replayed records pass between progress
// callbacks when rebuilding reports from the inventory.
const progressEvery = 50000

// Result is a finished flat analysis.
type Result struct {
	TotalSize  int64            `json:"total_size"`
	FileCount  int64            `json:"file_count"`
	RootTotals map[string]int64 `json:"root_totals"`
	TopFiles   []Entry          `json:"top_files"`
	TopDirs    []Entry          `json:"top_dirs"`
}

// Analyzer streams file sizes into totals, per-directory rollups, and
// bounded top-K lists. Directories themselves carry no size; every
// byte is attributed to a regular file and accumulated upward.
type Analyzer struct {
	filter   string
	topFiles *topN
	topK     int

	totalSize  int64
	fileCount  int64
	rootTotals map[string]int64
	dirSizes   map[string]int64
}

// NewAnalyzer creates an Analyzer. filter, when non-empty, is an
// absolute path restricting the report to files beneath it. topK
// bounds both the file and directory lists.
func NewAnalyzer(filter string, topK int) *Analyzer {
	return &Analyzer{
		filter:     filter,
		topFiles:   newTopN(topK),
		topK:       topK,
		rootTotals: make(map[string]int64),
		dirSizes:   make(map[string]int64),
	}
}

// OnFileScanned ingests one entry. Directories and symlinks are skipped;
// their contents arrive as separate events.
func (a *Analyzer) OnFileScanned(rootPath string, file types.ScannedFile) {
	if file.IsDir || file.IsSymlink {
		return
	}
	if a.filter != "" && !underPath(a.filter, file.AbsPath) {
		return
	}

	a.totalSize += file.Size
	a.fileCount++
	a.rootTotals[rootPath] += file.Size
	a.topFiles.offer(file.AbsPath, file.Size)

	limit := scopeBoundary(rootPath, a.filter, file.AbsPath)
	accumulateUpward(file.AbsPath, limit, func(dir string) {
		a.dirSizes[dir] += file.Size
	})
}

// OnRootFinished is a no-op; the flat report has no per-root state to
// flush.
func (a *Analyzer) OnRootFinished(string) {}

// Finalize sorts and truncates the accumulated state into a Result.
// The analyzer can keep ingesting afterwards only for the totals; the
// top-files heap is consumed.
func (a *Analyzer) Finalize() Result {
	topDirs := newTopN(a.topK)
	for dir, size := range a.dirSizes {
		topDirs.offer(dir, size)
	}

	return Result{
		TotalSize:  a.totalSize,
		FileCount:  a.fileCount,
		RootTotals: a.rootTotals,
		TopFiles:   a.topFiles.drain(),
		TopDirs:    topDirs.drain(),
	}
}

// FromStore replays the active inventory records into a fresh Analyzer
// and returns the finished result. Soft-deleted records are invisible.
func FromStore(data *store.Data, filter string, topK int) Result {
	a := NewAnalyzer(filter, topK)
	replay(data, a)
	return a.Finalize()
}

// replay feeds every active record to the observer, resolving root
// paths by id. Records of unknown roots are dropped with a warning.
func replay(data *store.Data, obs interface {
	OnFileScanned(rootPath string, file types.ScannedFile)
}) {
	log := logging.Get("analyze")

	rootPaths := make(map[int64]string, len(data.Roots))
	for _, r := range data.Roots {
		rootPaths[r.ID] = r.Path
	}

	for i := range data.Files {
		f := &data.Files[i]
		if f.Status != store.StatusActive {
			continue
		}
		rootPath, ok := rootPaths[f.RootID]
		if !ok {
			log.Warn("record references unknown root", "file_id", f.ID, "root_id", f.RootID)
			continue
		}
		obs.OnFileScanned(rootPath, types.ScannedFile{
			RelPath:   f.RelPath,
			AbsPath:   f.AbsPath,
			IsDir:     f.IsDir,
			IsSymlink: f.IsSymlink,
			Size:      f.Size,
			Mtime:     f.Mtime,
			Ext:       f.Ext,
		})
		if (i+1)%progressEvery == 0 {
			log.Debug("replaying inventory", "records", i+1)
		}
	}
}
