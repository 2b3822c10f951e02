// Package types provides core data types shared across the catalog indexer.
// It includes the per-event scan payload, run statistics, and utility
// functions for parsing and formatting file sizes.
package types

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Size constants for binary (IEC) units.
const (
	KiB int64 = 1024
	MiB int64 = 1024 * KiB
	GiB int64 = 1024 * MiB
	TiB int64 = 1024 * GiB
)

// ScannedFile is the per-event payload emitted by the scanner for every
// entry under a root. It is consumed immediately downstream and never
// persisted as-is.
type ScannedFile struct {
	// RelPath is the path relative to the scan root. It is the identity
	// key of the entry within that root.
	RelPath string `json:"rel_path"`

	// AbsPath is the absolute path of the entry.
	AbsPath string `json:"abs_path"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`

	// IsSymlink reports whether the entry is a symbolic link.
	// Symlinks are recorded as leaves and never followed.
	IsSymlink bool `json:"is_symlink"`

	// Size is the entry size in bytes. Always 0 for directories.
	Size int64 `json:"size"`

	// Mtime is the modification time as a Unix timestamp in seconds.
	Mtime int64 `json:"mtime"`

	// Ext is the lowercased file extension without the leading dot,
	// or empty if the entry has none.
	Ext string `json:"ext,omitempty"`
}

// IndexStats holds the aggregate counters of one index run.
type IndexStats struct {
	// Seen is the number of entries observed across all roots.
	Seen int `json:"seen"`

	// Updated is the number of records created or refreshed.
	Updated int `json:"updated"`

	// Deleted is the number of records soft-deleted by finalization.
	Deleted int `json:"deleted"`

	// Skipped is the number of entries dropped due to per-entry errors.
	Skipped int `json:"skipped"`

	// PermissionSkips counts skips caused by permission-denied errors.
	PermissionSkips int `json:"permission_skips"`

	// WalkErrors counts directory listings that failed.
	WalkErrors int `json:"walk_errors"`

	// WalkErrorSample retains one walk error message for reporting.
	WalkErrorSample string `json:"walk_error_sample,omitempty"`

	// MissingRoots lists configured roots that did not exist at scan start.
	MissingRoots []string `json:"missing_roots,omitempty"`
}

// Add accumulates the counters of a per-root result into s.
func (s *IndexStats) Add(other IndexStats) {
	s.Seen += other.Seen
	s.Updated += other.Updated
	s.Deleted += other.Deleted
	s.Skipped += other.Skipped
	s.PermissionSkips += other.PermissionSkips
	s.WalkErrors += other.WalkErrors
	if s.WalkErrorSample == "" {
		s.WalkErrorSample = other.WalkErrorSample
	}
	s.MissingRoots = append(s.MissingRoots, other.MissingRoots...)
}

// sizePattern matches size strings like "100M", "2G", "500K", "1.5GB", etc.
var sizePattern = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*([KMGT]?(?:i?B)?)\s*$`)

// ErrInvalidSize indicates that the size string could not be parsed.
var ErrInvalidSize = errors.New("invalid size format")

// ErrNegativeSize indicates that a negative size value was provided.
var ErrNegativeSize = errors.New("size cannot be negative")

// ParseSize parses a human-readable size string and returns the size in
// bytes. Supported forms: plain bytes ("1024"), with byte suffix ("512B"),
// and K/M/G/T with optional B or iB ("100K", "50MiB", "2GB"). Decimal
// values are truncated to the nearest byte.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty string", ErrInvalidSize)
	}
	if strings.HasPrefix(s, "-") {
		return 0, ErrNegativeSize
	}

	matches := sizePattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	suffix := strings.ToUpper(matches[2])
	suffix = strings.TrimSuffix(suffix, "IB")
	suffix = strings.TrimSuffix(suffix, "B")

	var multiplier int64
	switch suffix {
	case "":
		multiplier = 1
	case "K":
		multiplier = KiB
	case "M":
		multiplier = MiB
	case "G":
		multiplier = GiB
	case "T":
		multiplier = TiB
	default:
		return 0, fmt.Errorf("%w: unknown suffix %q", ErrInvalidSize, suffix)
	}

	return int64(value * float64(multiplier)), nil
}

// FormatSize converts a size in bytes to a human-readable string using
// binary (IEC) units for consistency with common filesystem tools.
func FormatSize(bytes int64) string {
	if bytes < 0 {
		return "-" + humanize.IBytes(uint64(-bytes))
	}
	return humanize.IBytes(uint64(bytes))
}
