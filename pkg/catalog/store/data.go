package store

// Record status values. Records are soft-deleted so ids stay valid for
// external references such as tags.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// CurrentVersion is the store data format version.
const CurrentVersion = 1

// RootEntry describes one configured scan root.
type RootEntry struct {
	ID            int64  `json:"id"`
	Path          string `json:"path"`
	AddedAt       string `json:"added_at"`
	PresetName    string `json:"preset_name,omitempty"`
	LastIndexedAt string `json:"last_indexed_at,omitempty"`
	OneFilesystem bool   `json:"one_filesystem"`
}

// FileEntry is one inventory record. (RootID, RelPath) is unique across
// all statuses; IDs are never reused.
type FileEntry struct {
	ID          int64  `json:"id"`
	RootID      int64  `json:"root_id"`
	RelPath     string `json:"rel_path"`
	AbsPath     string `json:"abs_path"`
	IsDir       bool   `json:"is_dir"`
	IsSymlink   bool   `json:"is_symlink"`
	Size        int64  `json:"size"`
	Mtime       int64  `json:"mtime"`
	Ext         string `json:"ext,omitempty"`
	Status      string `json:"status"`
	LastSeenRun int64  `json:"last_seen_run"`
}

// TagEntry is a named tag.
type TagEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// FileTagEntry associates a file record with a tag.
type FileTagEntry struct {
	FileID int64 `json:"file_id"`
	TagID  int64 `json:"tag_id"`
}

// Data is the full in-memory inventory. It has one exclusive writer (the
// indexer's consumer loop) for the duration of a run; readers access it
// only between runs.
type Data struct {
	Version    int            `json:"version"`
	LastRunID  int64          `json:"last_run_id"`
	NextRootID int64          `json:"next_root_id"`
	NextFileID int64          `json:"next_file_id"`
	NextTagID  int64          `json:"next_tag_id"`
	Roots      []RootEntry    `json:"roots"`
	Files      []FileEntry    `json:"files"`
	Tags       []TagEntry     `json:"tags"`
	FileTags   []FileTagEntry `json:"file_tags"`
}

// NewData returns an empty inventory with counters at their start values.
func NewData() *Data {
	return &Data{
		Version:    CurrentVersion,
		NextRootID: 1,
		NextFileID: 1,
		NextTagID:  1,
	}
}

// EnsureCounters advances the id counters past the maximum ids present.
// A persisted counter and a persisted max id can diverge after a crash
// between allocation and persistence; the max id wins.
func (d *Data) EnsureCounters() {
	var maxRoot, maxFile, maxTag int64
	for _, r := range d.Roots {
		if r.ID > maxRoot {
			maxRoot = r.ID
		}
	}
	for _, f := range d.Files {
		if f.ID > maxFile {
			maxFile = f.ID
		}
	}
	for _, t := range d.Tags {
		if t.ID > maxTag {
			maxTag = t.ID
		}
	}

	if d.NextRootID <= maxRoot {
		d.NextRootID = maxRoot + 1
	}
	if d.NextFileID <= maxFile {
		d.NextFileID = maxFile + 1
	}
	if d.NextTagID <= maxTag {
		d.NextTagID = maxTag + 1
	}
	if d.Version == 0 {
		d.Version = CurrentVersion
	}
}

// AllocRootID returns the next root id and advances the counter.
func (d *Data) AllocRootID() int64 {
	id := d.NextRootID
	d.NextRootID++
	return id
}

// AllocFileID returns the next file id and advances the counter.
// File ids are globally unique and monotonically increasing; they are
// never reused, even after soft deletion.
func (d *Data) AllocFileID() int64 {
	id := d.NextFileID
	d.NextFileID++
	return id
}

// AllocTagID returns the next tag id and advances the counter.
func (d *Data) AllocTagID() int64 {
	id := d.NextTagID
	d.NextTagID++
	return id
}

// NextRunID advances and returns the run id. One run corresponds to one
// orchestrator invocation.
func (d *Data) NextRunID() int64 {
	d.LastRunID++
	return d.LastRunID
}

// RootByID returns the root with the given id, or nil.
func (d *Data) RootByID(id int64) *RootEntry {
	for i := range d.Roots {
		if d.Roots[i].ID == id {
			return &d.Roots[i]
		}
	}
	return nil
}

// RootByPath returns the root with the given canonical path, or nil.
func (d *Data) RootByPath(path string) *RootEntry {
	for i := range d.Roots {
		if d.Roots[i].Path == path {
			return &d.Roots[i]
		}
	}
	return nil
}
