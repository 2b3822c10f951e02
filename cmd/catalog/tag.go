package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"catalog/pkg/catalog/config"
	"catalog/pkg/catalog/store"
	"catalog/pkg/catalog/tags"
)

var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Label indexed files",
	Long: `Attaches and removes labels on indexed files. Files are referenced by
their numeric id (shown in search output) or by path.`,
}

var tagAddCmd = &cobra.Command{
	Use:   "add <file> <tag>",
	Short: "Attach a tag to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(true, func(cfg *config.Config, st *store.Store) error {
			if err := tags.Add(st.Data, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Tagged %s with %q\n", args[0], args[1])
			return nil
		})
	},
}

var tagRmCmd = &cobra.Command{
	Use:   "rm <file> <tag>",
	Short: "Detach a tag from a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(true, func(cfg *config.Config, st *store.Store) error {
			if err := tags.Remove(st.Data, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Removed %q from %s\n", args[1], args[0])
			return nil
		})
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags with usage counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(false, func(cfg *config.Config, st *store.Store) error {
			f, err := formatter(cfg)
			if err != nil {
				return err
			}
			return f.Tags(os.Stdout, tags.List(st.Data))
		})
	},
}

func init() {
	tagCmd.AddCommand(tagAddCmd)
	tagCmd.AddCommand(tagRmCmd)
	rootCmd.AddCommand(tagCmd)
	rootCmd.AddCommand(tagsCmd)
}
