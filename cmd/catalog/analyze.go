package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/cmd/catalog/tui"
	"catalog/pkg/catalog/analyze"
	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
)

var (
	analyzeTop         int
	analyzeInteractive bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Report disk usage from the index",
	Long: `Builds a usage report from the stored inventory without touching the
filesystem. With a path argument the report is scoped to that subtree.

--interactive opens a browsable directory view instead of the flat
report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter string
		if len(args) == 1 {
			abs, err := config.NormalizePath(args[0])
			if err != nil {
				return fmt.Errorf("resolve filter path: %w", err)
			}
			filter = abs
		}

		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			if len(st.Data.Files) == 0 {
				return fmt.Errorf("index is empty, run: catalog index")
			}

			if analyzeInteractive {
				idx := analyze.BrowseFromStore(st.Data, filter)
				return tui.Browse(idx)
			}

			res := analyze.FromStore(st.Data, filter, analyzeTop)
			f, err := formatter(cfg)
			if err != nil {
				return err
			}
			return f.Report(os.Stdout, res)
		})
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeTop, "top", config.DefaultTopFiles, "entries per top list")
	analyzeCmd.Flags().BoolVarP(&analyzeInteractive, "interactive", "i", false, "browse directories interactively")
	rootCmd.AddCommand(analyzeCmd)
}
