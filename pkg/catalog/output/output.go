// Package output renders query results in the selected format. A small
// registry maps format names to Formatter implementations so commands
// stay agnostic of how results get printed.
package output

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/search"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/tags"
	"catalog/pkg/catalog/types"
)

// Formatter renders each result family to a writer.
type Formatter interface {
	// Entries renders search hits.
	Entries(w io.Writer, entries []search.Entry) error

	// Report renders a flat usage report.
	Report(w io.Writer, res analyze.Result) error

	// Roots renders the configured roots with their inventory state.
	Roots(w io.Writer, data *store.Data) error

	// Tags renders tag names with reference counts.
	Tags(w io.Writer, counts []tags.TagCount) error

	// Stats renders the counters of a finished index run.
	Stats(w io.Writer, stats types.IndexStats) error
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Formatter)
)

// Register adds a formatter under a name. Later registrations replace
// earlier ones.
func Register(name string, f Formatter) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// Get returns the named formatter.
func Get(name string) (Formatter, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q: available formats are %v", name, names())
	}
	return f, nil
}

// Available lists the registered format names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return names()
}

// names collects the registered format names. Callers hold registryMu.
func names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func init() {
	Register("plain", &plainFormatter{})
	Register("json", &jsonFormatter{})
}
