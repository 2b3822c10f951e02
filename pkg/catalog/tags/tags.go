// Package tags attaches user labels to indexed files. Tags live in the
// same inventory as the file records and are pruned as soon as their
// last reference disappears.
package tags

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
)

// ErrFileNotFound indicates that the file reference matched no active
// record.
var ErrFileNotFound = errors.New("no active record for file")

// TagCount pairs a tag name with its reference count.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Add attaches a tag to a file referenced by numeric id or by path.
// Tag names are lowercased. The tag is created on first use; tagging
// twice is a no-op.
func Add(data *store.Data, fileRef, tagName string) error {
	tagName = strings.ToLower(strings.TrimSpace(tagName))
	if tagName == "" {
		return errors.New("tag name cannot be empty")
	}

	fileID, err := resolveFileID(data, fileRef)
	if err != nil {
		return err
	}

	tagID := int64(-1)
	for _, t := range data.Tags {
		if t.Name == tagName {
			tagID = t.ID
			break
		}
	}
	if tagID < 0 {
		tagID = data.AllocTagID()
		data.Tags = append(data.Tags, store.TagEntry{ID: tagID, Name: tagName})
	}

	for _, ft := range data.FileTags {
		if ft.FileID == fileID && ft.TagID == tagID {
			return nil
		}
	}
	data.FileTags = append(data.FileTags, store.FileTagEntry{FileID: fileID, TagID: tagID})
	return nil
}

// Remove detaches a tag from a file. A tag left with no references is
// deleted.
func Remove(data *store.Data, fileRef, tagName string) error {
	tagName = strings.ToLower(strings.TrimSpace(tagName))
	fileID, err := resolveFileID(data, fileRef)
	if err != nil {
		return err
	}

	tagID := int64(-1)
	for _, t := range data.Tags {
		if t.Name == tagName {
			tagID = t.ID
			break
		}
	}
	if tagID < 0 {
		return fmt.Errorf("unknown tag %q", tagName)
	}

	kept := data.FileTags[:0]
	removed := false
	for _, ft := range data.FileTags {
		if ft.FileID == fileID && ft.TagID == tagID {
			removed = true
			continue
		}
		kept = append(kept, ft)
	}
	data.FileTags = kept
	if !removed {
		return fmt.Errorf("file is not tagged %q", tagName)
	}

	pruneTag(data, tagID)
	return nil
}

// List returns every tag with its reference count, sorted by name.
func List(data *store.Data) []TagCount {
	counts := make(map[int64]int, len(data.Tags))
	for _, ft := range data.FileTags {
		counts[ft.TagID]++
	}

	out := make([]TagCount, 0, len(data.Tags))
	for _, t := range data.Tags {
		out = append(out, TagCount{Name: t.Name, Count: counts[t.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// resolveFileID accepts a numeric file id or a filesystem path and
// returns the matching active record's id.
func resolveFileID(data *store.Data, ref string) (int64, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		for i := range data.Files {
			f := &data.Files[i]
			if f.ID == id && f.Status == store.StatusActive {
				return id, nil
			}
		}
		return 0, fmt.Errorf("%w: id %d", ErrFileNotFound, id)
	}

	abs, err := config.NormalizePathAllowMissing(ref)
	if err != nil {
		return 0, err
	}
	for i := range data.Files {
		f := &data.Files[i]
		if f.AbsPath == abs && f.Status == store.StatusActive {
			return f.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrFileNotFound, abs)
}

// pruneTag deletes the tag if nothing references it anymore.
func pruneTag(data *store.Data, tagID int64) {
	for _, ft := range data.FileTags {
		if ft.TagID == tagID {
			return
		}
	}
	kept := data.Tags[:0]
	for _, t := range data.Tags {
		if t.ID != tagID {
			kept = append(kept, t)
		}
	}
	data.Tags = kept
}
