package output

import (
	"encoding/json"
	"io"

	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/search"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/tags"
	"catalog/pkg/catalog/types"
)

// jsonFormatter emits indented JSON for scripting.
type jsonFormatter struct{}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (j *jsonFormatter) Entries(w io.Writer, entries []search.Entry) error {
	if entries == nil {
		entries = []search.Entry{}
	}
	return writeJSON(w, entries)
}

func (j *jsonFormatter) Report(w io.Writer, res analyze.Result) error {
	return writeJSON(w, res)
}

func (j *jsonFormatter) Roots(w io.Writer, data *store.Data) error {
	roots := data.Roots
	if roots == nil {
		roots = []store.RootEntry{}
	}
	return writeJSON(w, roots)
}

func (j *jsonFormatter) Tags(w io.Writer, counts []tags.TagCount) error {
	if counts == nil {
		counts = []tags.TagCount{}
	}
	return writeJSON(w, counts)
}

func (j *jsonFormatter) Stats(w io.Writer, stats types.IndexStats) error {
	return writeJSON(w, stats)
}
