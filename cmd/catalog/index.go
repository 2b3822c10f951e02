package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/indexer"
	"catalog/pkg/catalog/store"
)

var (
	indexFull    bool
	indexWorkers int
	indexOneFS   bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scan every root and update the inventory",
	Long: `Walks each configured root and merges the results into the persistent
index. Files that disappeared since the last run are soft-deleted, so
search can tell you a file is gone rather than forgetting it existed.

An incremental run trusts the previous state; --full re-verifies every
record by marking everything deleted up front and reactivating what is
still on disk.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(true, func(cfg *config.Config, st *store.Store) error {
			if len(cfg.Roots) == 0 {
				return fmt.Errorf("no roots configured, add one with: catalog roots add <path>")
			}
			if cmd.Flags().Changed("one-filesystem") {
				cfg.OneFilesystem = indexOneFS
			}

			progress := func(seen int) {
				if seen%10000 == 0 {
					fmt.Fprintf(os.Stderr, "\rindexed %d entries...", seen)
				}
			}
			stats, err := indexer.Run(st.Data, cfg, indexer.Options{
				Full:       indexFull,
				Workers:    indexWorkers,
				OnProgress: progress,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(os.Stderr, "\r")

			f, ferr := formatter(cfg)
			if ferr != nil {
				return ferr
			}
			return f.Stats(os.Stdout, stats)
		})
	},
}

func init() {
	indexCmd.Flags().BoolVar(&indexFull, "full", false, "re-verify every record")
	indexCmd.Flags().IntVarP(&indexWorkers, "workers", "w", 0, "traversal workers per root (0=auto)")
	indexCmd.Flags().BoolVar(&indexOneFS, "one-filesystem", true, "stay on each root's filesystem")
	rootCmd.AddCommand(indexCmd)
}
