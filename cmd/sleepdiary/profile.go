package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourname/sleepdiary/internal/render"
	"github.com/yourname/sleepdiary/internal/service"
	"github.com/yourname/sleepdiary/internal/storage"
)

func newProfileCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show a user's profile and sleep goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(d *deps, db storage.Database) error {
				view, err := service.GetProfile(cmd.Context(), db, userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), render.Profile(view))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
