package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/search"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/types"
)

var (
	searchExt     string
	searchTags    []string
	searchAfter   string
	searchBefore  string
	searchMinSize string
	searchMaxSize string
	searchRoot    string
	searchLimit   int
	searchDirs    bool
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Find files in the index",
	Long: `Queries the stored inventory. All filters combine with AND. The text
argument is a case-insensitive substring match on the full path.

Examples:
  catalog search invoice --ext pdf
  catalog search --tag work --after 2026-01-01
  catalog search --min-size 1G`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q := search.Query{
			Ext:       searchExt,
			Tags:      searchTags,
			After:     searchAfter,
			Before:    searchBefore,
			Root:      searchRoot,
			Limit:     searchLimit,
			FilesOnly: !searchDirs,
		}
		if len(args) == 1 {
			q.Text = args[0]
		}
		if searchMinSize != "" {
			n, err := types.ParseSize(searchMinSize)
			if err != nil {
				return fmt.Errorf("invalid --min-size: %w", err)
			}
			q.MinSize = n
		}
		if searchMaxSize != "" {
			n, err := types.ParseSize(searchMaxSize)
			if err != nil {
				return fmt.Errorf("invalid --max-size: %w", err)
			}
			q.MaxSize = n
		}

		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			entries, err := search.Search(st.Data, q)
			if err != nil {
				return err
			}
			f, err := formatter(cfg)
			if err != nil {
				return err
			}
			return f.Entries(os.Stdout, entries)
		})
	},
}

var (
	recentDays  int
	recentLimit int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show files modified in the last few days",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			entries, err := search.Recent(st.Data, recentDays, recentLimit)
			if err != nil {
				return err
			}
			f, err := formatter(cfg)
			if err != nil {
				return err
			}
			return f.Entries(os.Stdout, entries)
		})
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchExt, "ext", "", "match file extension")
	searchCmd.Flags().StringSliceVar(&searchTags, "tag", nil, "require a tag (repeatable)")
	searchCmd.Flags().StringVar(&searchAfter, "after", "", "modified on or after (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchBefore, "before", "", "modified before (YYYY-MM-DD)")
	searchCmd.Flags().StringVar(&searchMinSize, "min-size", "", "minimum size (e.g. 100M)")
	searchCmd.Flags().StringVar(&searchMaxSize, "max-size", "", "maximum size (e.g. 1G)")
	searchCmd.Flags().StringVar(&searchRoot, "root", "", "restrict to one root path")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 100, "maximum results (0=all)")
	searchCmd.Flags().BoolVar(&searchDirs, "dirs", false, "include directories")
	rootCmd.AddCommand(searchCmd)

	recentCmd.Flags().IntVar(&recentDays, "days", 7, "recency window in days")
	recentCmd.Flags().IntVar(&recentLimit, "limit", 20, "maximum results")
	rootCmd.AddCommand(recentCmd)
}
