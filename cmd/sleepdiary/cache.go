package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourname/sleepdiary/internal/service"
)

func newCacheCmd() *cobra.Command {
	var entryFile string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache an entry as yesterday's entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := readEntryFile(entryFile)
			if err != nil {
				return err
			}
			return withEntryDeps(func(d service.EntryDeps) error {
				if err := service.CacheYesterdaysEntry(cmd.Context(), d, e); err != nil {
					return fmt.Errorf("caching entry: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cached entry for %s\n", e.Date)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&entryFile, "entry", "e", "", "JSON file holding the entry to cache")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}
