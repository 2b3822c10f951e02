package analyze

import (
	"path/filepath"
	"strings"
)

// scopeBoundary picks the upper bound for directory accumulation: the
// filter when the file sits inside it, otherwise the root. The boundary
// itself is included.
func scopeBoundary(rootPath, filter, absPath string) string {
	if filter != "" && underPath(filter, absPath) {
		return filter
	}
	return rootPath
}

// underPath reports whether child equals base or sits below it.
func underPath(base, child string) bool {
	if child == base {
		return true
	}
	return strings.HasPrefix(child, base+string(filepath.Separator))
}

// accumulateUpward invokes fn for the file's parent directory and each
// ancestor up to and including limit. Paths outside limit get no calls.
func accumulateUpward(absPath, limit string, fn func(dir string)) {
	dir := filepath.Dir(absPath)
	for {
		if !underPath(limit, dir) {
			return
		}
		fn(dir)
		if dir == limit {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}
