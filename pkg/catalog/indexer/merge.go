package indexer

import (
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

// merger folds the scan events for a single root into the inventory.
// It runs on the consumer goroutine only; no locking.
type merger struct {
	data   *store.Data
	rootID int64
	runID  int64

	// index maps rel_path to a position in data.Files for this root's
	// records, including soft-deleted ones.
	index map[string]int

	// activeAtStart remembers which of this root's records were active
	// before the run so finalize can count deletions on both full and
	// incremental rescans.
	activeAtStart map[int64]bool

	seen    int
	updated int
	created int
}

// newMerger builds the rel_path index for the root. A full rescan
// eagerly marks every active record deleted; records seen again during
// the run flip back to active with their ids intact.
func newMerger(data *store.Data, rootID, runID int64, full bool) *merger {
	m := &merger{
		data:          data,
		rootID:        rootID,
		runID:         runID,
		index:         make(map[string]int),
		activeAtStart: make(map[int64]bool),
	}
	for i := range data.Files {
		f := &data.Files[i]
		if f.RootID != rootID {
			continue
		}
		m.index[f.RelPath] = i
		if f.Status == store.StatusActive {
			m.activeAtStart[f.ID] = true
			if full {
				f.Status = store.StatusDeleted
			}
		}
	}
	return m
}

// apply upserts one scanned file. Existing records keep their id;
// unknown paths get a fresh one.
func (m *merger) apply(file types.ScannedFile) {
	m.seen++

	if i, ok := m.index[file.RelPath]; ok {
		f := &m.data.Files[i]
		f.AbsPath = file.AbsPath
		f.IsDir = file.IsDir
		f.IsSymlink = file.IsSymlink
		f.Size = file.Size
		f.Mtime = file.Mtime
		f.Ext = file.Ext
		f.Status = store.StatusActive
		f.LastSeenRun = m.runID
		m.updated++
		return
	}

	entry := store.FileEntry{
		ID:          m.data.AllocFileID(),
		RootID:      m.rootID,
		RelPath:     file.RelPath,
		AbsPath:     file.AbsPath,
		IsDir:       file.IsDir,
		IsSymlink:   file.IsSymlink,
		Size:        file.Size,
		Mtime:       file.Mtime,
		Ext:         file.Ext,
		Status:      store.StatusActive,
		LastSeenRun: m.runID,
	}
	m.data.Files = append(m.data.Files, entry)
	m.index[file.RelPath] = len(m.data.Files) - 1
	m.created++
}

// finalize soft-deletes records that were active before the run but
// not seen during it, and returns the deletion count.
func (m *merger) finalize() int {
	var deleted int
	for _, i := range m.index {
		f := &m.data.Files[i]
		if f.LastSeenRun == m.runID {
			continue
		}
		if !m.activeAtStart[f.ID] {
			continue
		}
		f.Status = store.StatusDeleted
		deleted++
	}
	return deleted
}
