package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/indexer"
	"catalog/pkg/catalog/logging"
	"catalog/pkg/catalog/store"
)

var (
	watchInterval time.Duration
	watchFull     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rescan the roots on an interval",
	Long: `Runs an incremental index pass over every root, sleeps for the
interval, and repeats until interrupted. Each pass saves the inventory,
so other catalog invocations always see the latest completed run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logging.Get("watch")
		fmt.Fprintf(os.Stderr, "Watching every %s, press Ctrl-C to stop.\n", watchInterval)

		for {
			err := withStore(true, func(cfg *config.Config, st *store.Store) error {
				if len(cfg.Roots) == 0 {
					return fmt.Errorf("no roots configured, add one with: catalog roots add <path>")
				}
				stats, err := indexer.Run(st.Data, cfg, indexer.Options{Full: watchFull, Workers: indexWorkers})
				if err != nil {
					return err
				}
				log.Info("pass complete",
					"seen", stats.Seen,
					"deleted", stats.Deleted,
					"walk_errors", stats.WalkErrors)
				return nil
			})
			if err != nil {
				return err
			}

			select {
			case <-ctx.Done():
				fmt.Fprintln(os.Stderr, "Stopped.")
				return nil
			case <-time.After(watchInterval):
			}
		}
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Minute, "time between passes")
	watchCmd.Flags().BoolVar(&watchFull, "full", false, "re-verify every record each pass")
	rootCmd.AddCommand(watchCmd)
}
