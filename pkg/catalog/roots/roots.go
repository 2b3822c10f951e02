// Package roots manages the configured scan roots and keeps the
// inventory's root records in sync with the configuration.
package roots

import (
	"time"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/logging"
	"catalog/pkg/catalog/store"
)

// Add canonicalizes and appends new roots to the configuration,
// skipping duplicates and missing paths. Returns the number added.
func Add(cfg *config.Config, paths []string) (int, error) {
	existing := make(map[string]bool, len(cfg.Roots))
	for _, r := range cfg.Roots {
		existing[r] = true
	}

	added := 0
	for _, p := range paths {
		canonical, err := config.NormalizePath(p)
		if err != nil {
			logging.Get("roots").Warn("skipping missing path", "path", p, "error", err)
			continue
		}
		if existing[canonical] {
			continue
		}
		existing[canonical] = true
		cfg.Roots = append(cfg.Roots, canonical)
		added++
	}
	return added, nil
}

// Remove drops roots from the configuration. Paths are normalized but
// may be missing on disk. Returns the number removed.
func Remove(cfg *config.Config, paths []string) (int, error) {
	drop := make(map[string]bool, len(paths))
	for _, p := range paths {
		normalized, err := config.NormalizePathAllowMissing(p)
		if err != nil {
			return 0, err
		}
		drop[normalized] = true
	}

	kept := cfg.Roots[:0]
	removed := 0
	for _, r := range cfg.Roots {
		if drop[r] {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	cfg.Roots = kept
	return removed, nil
}

// Sync reconciles the inventory's root records with the configuration:
// configured roots gain a record (or refresh their one-filesystem flag),
// and roots no longer configured are removed with a cascading delete of
// their file records and tag references, pruning tags left with zero
// references.
func Sync(data *store.Data, cfg *config.Config, presetName string) {
	now := time.Now().Format(time.RFC3339)

	for _, path := range cfg.Roots {
		if entry := data.RootByPath(path); entry != nil {
			entry.OneFilesystem = cfg.OneFilesystem
			continue
		}
		data.Roots = append(data.Roots, store.RootEntry{
			ID:            data.AllocRootID(),
			Path:          path,
			AddedAt:       now,
			PresetName:    presetName,
			OneFilesystem: cfg.OneFilesystem,
		})
	}

	desired := make(map[string]bool, len(cfg.Roots))
	for _, path := range cfg.Roots {
		desired[path] = true
	}

	removedRoots := make(map[int64]bool)
	for _, r := range data.Roots {
		if !desired[r.Path] {
			removedRoots[r.ID] = true
		}
	}
	if len(removedRoots) == 0 {
		return
	}

	removedFiles := make(map[int64]bool)
	keptFiles := data.Files[:0]
	for _, f := range data.Files {
		if removedRoots[f.RootID] {
			removedFiles[f.ID] = true
			continue
		}
		keptFiles = append(keptFiles, f)
	}
	data.Files = keptFiles

	keptRoots := data.Roots[:0]
	for _, r := range data.Roots {
		if !removedRoots[r.ID] {
			keptRoots = append(keptRoots, r)
		}
	}
	data.Roots = keptRoots

	keptFileTags := data.FileTags[:0]
	for _, ft := range data.FileTags {
		if !removedFiles[ft.FileID] {
			keptFileTags = append(keptFileTags, ft)
		}
	}
	data.FileTags = keptFileTags

	pruneOrphanTags(data)
}

// pruneOrphanTags drops tags with no remaining file references.
func pruneOrphanTags(data *store.Data) {
	used := make(map[int64]bool, len(data.FileTags))
	for _, ft := range data.FileTags {
		used[ft.TagID] = true
	}

	kept := data.Tags[:0]
	for _, t := range data.Tags {
		if used[t.ID] {
			kept = append(kept, t)
		}
	}
	data.Tags = kept
}
