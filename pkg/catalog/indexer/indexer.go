// Package indexer drives index runs: it fans out one scanner per root,
// drains the event stream on a single consumer goroutine, and folds the
// results into the inventory through the merger.
package indexer

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/ignore"
	"catalog/pkg/catalog/logging"
	"catalog/pkg/catalog/roots"
	"catalog/pkg/catalog/scanner"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

// Options configures one index run.
type Options struct {
	// Full eagerly soft-deletes every record before rescanning so that
	// only entries seen during the run stay active.
	Full bool

	// Workers bounds each root's traversal pool. 0 uses the default.
	Workers int

	// Observers see every surviving file event and each root completion.
	Observers []Observer

	// OnProgress, if set, is called once per merged file event.
	OnProgress func(seen int)
}

// Run indexes every configured root in lexicographic order and returns
// the combined counters. The inventory is synced with the configured
// roots first, so removed roots are cascaded out before scanning.
//
// A missing root is counted and skipped with its records untouched. A
// malformed exclude pattern or a scanner setup failure is fatal.
func Run(data *store.Data, cfg *config.Config, opts Options) (types.IndexStats, error) {
	log := logging.Get("indexer")
	var stats types.IndexStats

	roots.Sync(data, cfg, "")
	runID := data.NextRunID()

	rootPaths := make([]string, len(cfg.Roots))
	copy(rootPaths, cfg.Roots)
	sort.Strings(rootPaths)

	for _, rootPath := range rootPaths {
		entry := data.RootByPath(rootPath)
		if entry == nil {
			return stats, fmt.Errorf("root %q has no inventory record", rootPath)
		}

		matcher, err := ignore.New(rootPath, cfg.Excludes, cfg.IncludeHidden)
		if err != nil {
			return stats, fmt.Errorf("compile excludes for %s: %w", rootPath, err)
		}

		sc := scanner.New(scanner.Options{
			Root:          rootPath,
			Matcher:       matcher,
			OneFilesystem: entry.OneFilesystem,
			Workers:       opts.Workers,
		})
		events, err := sc.Start()
		if err != nil {
			if errors.Is(err, scanner.ErrRootMissing) {
				log.Warn("root missing, records untouched", "root", rootPath)
				stats.MissingRoots = append(stats.MissingRoots, rootPath)
				continue
			}
			return stats, fmt.Errorf("scan %s: %w", rootPath, err)
		}

		rootStats := consume(data, entry, runID, events, opts, &stats)
		entry.LastIndexedAt = time.Now().Format(time.RFC3339)
		for _, obs := range opts.Observers {
			obs.OnRootFinished(rootPath)
		}

		log.Debug("root indexed",
			"root", rootPath,
			"seen", rootStats.Seen,
			"deleted", rootStats.Deleted)
		stats.Add(rootStats)
	}

	return stats, nil
}

// consume drains one root's event channel. It is the only goroutine
// touching the inventory while the workers are running.
func consume(data *store.Data, root *store.RootEntry, runID int64, events <-chan scanner.Event, opts Options, total *types.IndexStats) types.IndexStats {
	log := logging.Get("indexer")
	m := newMerger(data, root.ID, runID, opts.Full)
	var stats types.IndexStats

	for ev := range events {
		switch ev.Kind {
		case scanner.EventFile:
			for _, obs := range opts.Observers {
				obs.OnFileScanned(root.Path, ev.File)
			}
			m.apply(ev.File)
			if opts.OnProgress != nil {
				opts.OnProgress(total.Seen + m.seen)
			}

		case scanner.EventWalkError:
			stats.WalkErrors++
			if stats.WalkErrorSample == "" && total.WalkErrorSample == "" {
				stats.WalkErrorSample = fmt.Sprintf("%s: %s", ev.Path, ev.Err)
			}
			log.Debug("walk error", "path", ev.Path, "error", ev.Err)

		case scanner.EventMetadataError:
			if ev.PermissionDenied {
				stats.PermissionSkips++
			} else {
				stats.Skipped++
			}
			log.Debug("metadata unreadable", "path", ev.Path, "error", ev.Err)

		case scanner.EventRelPathError:
			stats.Skipped++
			log.Warn("entry outside root, skipped", "path", ev.Path, "error", ev.Err)
		}
	}

	stats.Seen = m.seen
	stats.Updated = m.updated + m.created
	stats.Deleted = m.finalize()
	return stats
}
