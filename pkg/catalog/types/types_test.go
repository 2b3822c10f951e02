package types

import (
	"errors"
	"testing"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"1024", 1024},
		{"512B", 512},
		{"100K", 100 * KiB},
		{"100KiB", 100 * KiB},
		{"50M", 50 * MiB},
		{"2G", 2 * GiB},
		{"1T", 1 * TiB},
		{"1.5M", 1536 * KiB},
		{" 10k ", 10 * KiB},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if err != nil {
				t.Fatalf("ParseSize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSizeErrors(t *testing.T) {
	if _, err := ParseSize(""); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("empty string: got %v, want ErrInvalidSize", err)
	}
	if _, err := ParseSize("abc"); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("garbage: got %v, want ErrInvalidSize", err)
	}
	if _, err := ParseSize("-5M"); !errors.Is(err, ErrNegativeSize) {
		t.Errorf("negative: got %v, want ErrNegativeSize", err)
	}
}

func TestFormatSize(t *testing.T) {
	if got := FormatSize(0); got != "0 B" {
		t.Errorf("FormatSize(0) = %q", got)
	}
	if got := FormatSize(1024); got != "1.0 KiB" {
		t.Errorf("FormatSize(1024) = %q", got)
	}
}

func TestIndexStatsAdd(t *testing.T) {
	var total IndexStats
	total.Add(IndexStats{Seen: 3, Updated: 3, Skipped: 1, WalkErrors: 1, WalkErrorSample: "first"})
	total.Add(IndexStats{Seen: 2, Deleted: 1, WalkErrors: 2, WalkErrorSample: "second", MissingRoots: []string{"/gone"}})

	if total.Seen != 5 || total.Updated != 3 || total.Deleted != 1 || total.Skipped != 1 {
		t.Errorf("unexpected counters: %+v", total)
	}
	if total.WalkErrors != 3 {
		t.Errorf("WalkErrors = %d, want 3", total.WalkErrors)
	}
	if total.WalkErrorSample != "first" {
		t.Errorf("WalkErrorSample = %q, want first sample retained", total.WalkErrorSample)
	}
	if len(total.MissingRoots) != 1 || total.MissingRoots[0] != "/gone" {
		t.Errorf("MissingRoots = %v", total.MissingRoots)
	}
}
