// Package scanner provides concurrent single-root filesystem traversal
// for the catalog indexer. Traversal work is spread over a bounded
// fastwalk worker pool; workers never mutate shared state and only send
// events through a multi-producer/single-consumer channel that the
// caller drains.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charlievieth/fastwalk"

	"catalog/pkg/catalog/ignore"
	"catalog/pkg/catalog/types"
)

// EventKind discriminates scan events.
type EventKind int

// Scan event kinds. All error kinds are non-fatal: the traversal keeps
// going and the consumer turns them into counters.
const (
	// EventFile carries the metadata snapshot of one accepted entry.
	EventFile EventKind = iota

	// EventWalkError reports a failed directory listing. Siblings of the
	// failed directory are still processed.
	EventWalkError

	// EventMetadataError reports an entry whose metadata could not be
	// read, tagged with whether the cause was a permission error.
	EventMetadataError

	// EventRelPathError reports an entry whose root-relative path could
	// not be computed. Should be unreachable in practice.
	EventRelPathError
)

// Event is one message from a traversal worker to the consumer.
type Event struct {
	Kind EventKind

	// File is set for EventFile.
	File types.ScannedFile

	// Path and Err describe the failure for error events.
	Path string
	Err  string

	// PermissionDenied is set on EventMetadataError when the cause was
	// a permission error. Tracked separately downstream.
	PermissionDenied bool
}

// ErrRootMissing is returned by Start when the root path does not exist
// at scan start. A missing root is a distinct outcome, not a zero-file
// success.
var ErrRootMissing = errors.New("root path does not exist")

// Options configures a single-root scan.
type Options struct {
	// Root is the canonical absolute path of the scan root.
	Root string

	// Matcher applies the root's exclusion rules. Nil disables exclusion.
	Matcher *ignore.Matcher

	// OneFilesystem refuses to descend across device boundaries.
	OneFilesystem bool

	// Workers bounds the traversal worker pool. 0 uses the fastwalk
	// default.
	Workers int
}

// Scanner traverses one root and emits scan events.
type Scanner struct {
	opts     Options
	rootDev  uint64
	checkDev bool
}

// New creates a Scanner for the given options.
func New(opts Options) *Scanner {
	return &Scanner{opts: opts}
}

// Start verifies the root and launches the traversal. It returns the
// event channel, closed once every worker has finished. The caller owns
// draining it to completion; there is no mid-scan cancellation.
func (s *Scanner) Start() (<-chan Event, error) {
	if _, err := os.Lstat(s.opts.Root); err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRootMissing
		}
		return nil, err
	}

	if s.opts.OneFilesystem {
		if dev, err := deviceID(s.opts.Root); err == nil {
			s.rootDev = dev
			s.checkDev = true
		}
		// Unsupported platforms scan without the device guard.
	}

	events := make(chan Event, 256)
	go s.walk(events)
	return events, nil
}

// walk runs the parallel traversal and closes the channel when done.
func (s *Scanner) walk(out chan<- Event) {
	defer close(out)

	conf := fastwalk.Config{
		Follow:     false, // Symlinks are leaf entries, never descended into.
		NumWorkers: s.opts.Workers,
	}

	err := fastwalk.Walk(&conf, s.opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			out <- Event{Kind: EventWalkError, Path: path, Err: err.Error()}
			return nil
		}
		if path == s.opts.Root {
			return nil
		}

		isDir := d.IsDir()
		if s.opts.Matcher != nil && s.opts.Matcher.ShouldSkip(path, isDir) {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		if isDir && s.checkDev {
			if dev, devErr := deviceID(path); devErr == nil && dev != s.rootDev {
				return filepath.SkipDir
			}
		}

		// Un-followed metadata snapshot.
		info, lstatErr := os.Lstat(path)
		if lstatErr != nil {
			out <- Event{
				Kind:             EventMetadataError,
				Path:             path,
				Err:              lstatErr.Error(),
				PermissionDenied: errors.Is(lstatErr, fs.ErrPermission),
			}
			return nil
		}

		rel, relErr := relPathOf(s.opts.Root, path)
		if relErr != nil {
			out <- Event{Kind: EventRelPathError, Path: path, Err: relErr.Error()}
			return nil
		}

		var size int64
		if !isDir {
			size = info.Size()
		}

		out <- Event{Kind: EventFile, File: types.ScannedFile{
			RelPath:   rel,
			AbsPath:   path,
			IsDir:     isDir,
			IsSymlink: d.Type()&fs.ModeSymlink != 0,
			Size:      size,
			Mtime:     info.ModTime().Unix(),
			Ext:       extOf(rel),
		}}
		return nil
	})
	if err != nil {
		out <- Event{Kind: EventWalkError, Path: s.opts.Root, Err: err.Error()}
	}
}

// relPathOf computes the root-relative path of an entry, rejecting
// anything that resolves outside the root.
func relPathOf(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("path %q escapes root %q", path, root)
	}
	return rel, nil
}

// extOf returns the lowercased extension of the path without the dot,
// or empty when there is none. A leading dot alone (".bashrc") is a
// hidden-file marker, not an extension.
func extOf(rel string) string {
	base := filepath.Base(rel)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[idx+1:])
}
