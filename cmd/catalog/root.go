package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/logging"
	"catalog/pkg/catalog/output"
	"catalog/pkg/catalog/store"
)

var (
	cfgFile    string
	storePath  string
	outFormat  string
	debugFlag  bool

	rootCmd = &cobra.Command{
		Use:   "catalog",
		Short: "Index filesystems and find what eats your disk",
		Long: `Catalog maintains a persistent index of your filesystems and answers
questions about it: what is taking up space, what changed recently,
where a file went.

Run "catalog init" once, then "catalog index" to build the inventory.

Examples:
  catalog init --preset home     # Configure the usual home directories
  catalog index                  # Incremental rescan of every root
  catalog analyze                # Usage report, largest files and dirs
  catalog analyze ~/Downloads    # Scoped to one subtree
  catalog search tax --ext pdf   # Find files in the index
  catalog recent                 # Most recently modified files`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/catalog/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "", "index location (default: ~/.local/share/catalog/index)")
	rootCmd.PersistentFlags().StringVarP(&outFormat, "output", "o", "", "output format (plain, json)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "debug logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := "warn"
		if debugFlag {
			level = "debug"
		}
		logging.Init(level)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolvePaths applies the --config and --store overrides.
func resolvePaths() (config.Paths, error) {
	return config.ResolvePaths(cfgFile, storePath)
}

// loadConfig reads the config file, or returns defaults when none
// exists yet.
func loadConfig() (*config.Config, config.Paths, error) {
	paths, err := resolvePaths()
	if err != nil {
		return nil, config.Paths{}, err
	}
	cfg, err := config.Load(paths.ConfigPath)
	if err != nil {
		return nil, config.Paths{}, err
	}
	return cfg, paths, nil
}

// formatter picks the output formatter from the flag, falling back to
// the configured default.
func formatter(cfg *config.Config) (output.Formatter, error) {
	name := outFormat
	if name == "" {
		name = cfg.Output
	}
	return output.Get(name)
}

// withStore opens the inventory, runs fn, and saves on success.
func withStore(save bool, fn func(cfg *config.Config, st *store.Store) error) error {
	cfg, paths, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(paths.StorePath)
	if err != nil {
		return fmt.Errorf("open index at %s: %w", paths.StorePath, err)
	}
	defer st.Close()

	if err := fn(cfg, st); err != nil {
		return err
	}
	if save {
		if err := st.Save(); err != nil {
			return fmt.Errorf("save index: %w", err)
		}
	}
	return nil
}

// printError reports a fatal command error.
func printError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
