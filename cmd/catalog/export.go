package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Dump the whole inventory as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			data, err := st.ExportJSON()
			if err != nil {
				return err
			}
			if exportOut == "" {
				_, err = os.Stdout.Write(append(data, '\n'))
				return err
			}
			if err := os.WriteFile(exportOut, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("Exported to %s\n", exportOut)
			return nil
		})
	},
}

var pruneYes bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete the index entirely",
	Long: `Removes the on-disk index. The configuration is untouched; the next
"catalog index" rebuilds everything from scratch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := resolvePaths()
		if err != nil {
			return err
		}
		if !pruneYes {
			fmt.Printf("Delete the index at %s? [y/N] ", paths.StorePath)
			var answer string
			fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				fmt.Println("Aborted.")
				return nil
			}
		}
		if err := store.Prune(paths.StorePath); err != nil {
			return err
		}
		fmt.Println("Index deleted.")
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)

	pruneCmd.Flags().BoolVarP(&pruneYes, "yes", "y", false, "skip confirmation")
	rootCmd.AddCommand(pruneCmd)
}
