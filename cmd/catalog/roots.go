package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/roots"
	"catalog/pkg/catalog/store"
)

var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the configured scan roots",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			roots.Sync(st.Data, cfg, "")
			f, err := formatter(cfg)
			if err != nil {
				return err
			}
			return f.Roots(os.Stdout, st.Data)
		})
	},
}

var rootsAddCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Add scan roots",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, paths, err := loadConfig()
		if err != nil {
			return err
		}
		added, err := roots.Add(cfg, args)
		if err != nil {
			return err
		}
		if err := config.Save(paths.ConfigPath, cfg); err != nil {
			return err
		}
		fmt.Printf("Added %d roots. Update the index with: catalog index\n", added)
		return nil
	},
}

var rootsRmCmd = &cobra.Command{
	Use:   "rm <path>...",
	Short: "Remove scan roots and their records",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, paths, err := loadConfig()
		if err != nil {
			return err
		}
		removed, err := roots.Remove(cfg, args)
		if err != nil {
			return err
		}
		if removed == 0 {
			fmt.Println("No matching roots.")
			return nil
		}
		if err := config.Save(paths.ConfigPath, cfg); err != nil {
			return err
		}

		// Cascade the removal through the inventory right away.
		st, err := store.Open(paths.StorePath)
		if err != nil {
			return err
		}
		defer st.Close()
		roots.Sync(st.Data, cfg, "")
		if err := st.Save(); err != nil {
			return err
		}

		fmt.Printf("Removed %d roots and their records.\n", removed)
		return nil
	},
}

func init() {
	rootsCmd.AddCommand(rootsAddCmd)
	rootsCmd.AddCommand(rootsRmCmd)
	rootCmd.AddCommand(rootsCmd)
}
