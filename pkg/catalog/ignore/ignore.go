// Package ignore compiles per-root exclusion rules into a skip/keep
// decision. Rules come in two shapes: gitignore-style relative patterns
// rooted at the scan root, and absolute or home-relative path prefixes.
// Hidden entries (a "."-prefixed path component) are excluded unless the
// include-hidden policy is set.
package ignore

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	"catalog/pkg/catalog/config"
)

// Matcher decides whether a scanned entry should be skipped. Built once
// per root; safe for concurrent use after construction.
type Matcher struct {
	root          string
	globs         []glob.Glob
	absPrefixes   []string
	includeHidden bool
}

// New compiles the exclusion rules for one root. A malformed pattern is
// a configuration error and aborts the whole invocation.
func New(root string, excludes []string, includeHidden bool) (*Matcher, error) {
	m := &Matcher{root: root, includeHidden: includeHidden}

	for _, ex := range excludes {
		if strings.HasPrefix(ex, "/") || strings.HasPrefix(ex, "~/") || ex == "~" {
			abs, err := config.NormalizePathAllowMissing(ex)
			if err != nil {
				return nil, err
			}
			m.absPrefixes = append(m.absPrefixes, abs)
			continue
		}

		for _, pattern := range patternVariants(ex) {
			g, err := glob.Compile(pattern, '/')
			if err != nil {
				return nil, fmt.Errorf("invalid exclude pattern %q: %w", ex, err)
			}
			m.globs = append(m.globs, g)
		}
	}

	return m, nil
}

// patternVariants expands a gitignore-style pattern into the glob forms
// needed to preserve its semantics under plain glob matching: a pattern
// without a slash matches at any depth, a leading "**/" also matches at
// the root itself, and the directory anchoring a "/**" suffix matches so
// its subtree can be pruned.
func patternVariants(pattern string) []string {
	variants := []string{pattern}
	if !strings.Contains(pattern, "/") {
		variants = append(variants, "**/"+pattern)
	}
	if rest, ok := strings.CutPrefix(pattern, "**/"); ok && rest != "" {
		variants = append(variants, rest)
	}
	for _, v := range variants {
		if anchor, ok := strings.CutSuffix(v, "/**"); ok && anchor != "" {
			variants = append(variants, anchor)
		}
	}
	return variants
}

// ShouldSkip reports whether the entry at path (absolute, under the
// matcher's root) must be excluded. The checks run in order: hidden
// policy, absolute-prefix excludes, compiled patterns; the first match
// wins. For directories the caller prunes the entire subtree.
func (m *Matcher) ShouldSkip(path string, isDir bool) bool {
	rel := m.relativize(path)

	if !m.includeHidden && hasHiddenComponent(rel) {
		return true
	}

	for _, abs := range m.absPrefixes {
		if path == abs || strings.HasPrefix(path, abs+"/") {
			return true
		}
	}

	return m.matchesPattern(rel)
}

// matchesPattern checks rel and each of its ancestors against the
// compiled patterns, mirroring gitignore's parent-directory matching.
func (m *Matcher) matchesPattern(rel string) bool {
	if len(m.globs) == 0 || rel == "" {
		return false
	}

	candidate := rel
	for {
		for _, g := range m.globs {
			if g.Match(candidate) {
				return true
			}
		}
		idx := strings.LastIndexByte(candidate, '/')
		if idx < 0 {
			return false
		}
		candidate = candidate[:idx]
	}
}

// relativize strips the root prefix; entries outside the root are
// matched against their full path.
func (m *Matcher) relativize(path string) string {
	if path == m.root {
		return ""
	}
	if rest, ok := strings.CutPrefix(path, m.root+"/"); ok {
		return rest
	}
	return path
}

// hasHiddenComponent reports whether any path component other than "."
// or ".." starts with a dot.
func hasHiddenComponent(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}
