package indexer

import "catalog/pkg/catalog/types"

// Observer receives scan events as the consumer drains them, before
// the inventory merge for each event. Implementations run on the
// consumer goroutine and must not block for long.
type Observer interface {
	// OnFileScanned is called once per surviving file event.
	OnFileScanned(rootPath string, file types.ScannedFile)

	// OnRootFinished is called after a root's scan completes and its
	// records have been merged.
	OnRootFinished(rootPath string)
}
