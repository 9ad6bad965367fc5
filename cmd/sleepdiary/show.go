package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/render"
	"github.com/yourname/sleepdiary/internal/service"
)

func newShowCmd() *cobra.Command {
	var (
		entryFile string
		edit      bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a sleep entry",
		Long: "Renders the entry screen for the entry in --entry, or for the cached " +
			"yesterday's entry when no file is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var e *internal.SleepEntry
			if entryFile != "" {
				var err error
				if e, err = readEntryFile(entryFile); err != nil {
					return err
				}
			}
			return withEntryDeps(func(d service.EntryDeps) error {
				return runShow(cmd, d, entry.SourceFor(e), edit)
			})
		},
	}

	cmd.Flags().StringVarP(&entryFile, "entry", "e", "", "JSON file holding the entry to show")
	cmd.Flags().BoolVar(&edit, "edit", false, "Request the editor for the shown entry")

	return cmd
}

func runShow(cmd *cobra.Command, d service.EntryDeps, src entry.EntrySource, edit bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if !edit {
		view, err := service.ShowEntry(ctx, d, src)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, render.Screen(view))
		return nil
	}

	var route string
	nav := entry.NavigatorFunc(func(_ context.Context, _ *internal.SleepEntry) error {
		route = entry.EditRoute
		return nil
	})
	view, err := service.EditEntry(ctx, d, src, nav)
	fmt.Fprintln(out, render.Screen(view))
	if errors.Is(err, entry.ErrEditUnavailable) {
		return fmt.Errorf("cannot edit the entry for %s: %w", view.FormattedDate, err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "navigate: %s\n", route)
	return nil
}
