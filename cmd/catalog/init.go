package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
)

var initPreset string

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the initial configuration",
	Long: `Writes a starter config file. With --preset, the configuration is
seeded with a curated set of roots; paths that do not exist on this
machine are silently dropped.

Available presets: ` + strings.Join(config.Presets(), ", "),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := resolvePaths()
		if err != nil {
			return err
		}
		if _, err := os.Stat(paths.ConfigPath); err == nil {
			return fmt.Errorf("config already exists at %s", paths.ConfigPath)
		}

		cfg := config.Default()
		if initPreset != "" {
			if err := config.ApplyPreset(cfg, initPreset); err != nil {
				return err
			}
		}
		if err := config.Save(paths.ConfigPath, cfg); err != nil {
			return err
		}

		fmt.Printf("Config written to %s\n", paths.ConfigPath)
		if len(cfg.Roots) == 0 {
			fmt.Println("No roots configured yet. Add one with: catalog roots add <path>")
		} else {
			fmt.Printf("Configured %d roots. Build the index with: catalog index\n", len(cfg.Roots))
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPreset, "preset", "", "seed roots from a preset")
	rootCmd.AddCommand(initCmd)
}
