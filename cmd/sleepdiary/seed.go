package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/render"
	"github.com/yourname/sleepdiary/internal/seed"
	"github.com/yourname/sleepdiary/internal/storage"
)

func newSeedCmd() *cobra.Command {
	var (
		userID    string
		name      string
		goalStart string
		goalEnd   string
		watch     bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write the sleep factor catalog and a user profile",
		Long: "Pushes every default sleep factor and stores a profile for --user holding the " +
			"whole catalog. Each run pushes the catalog again, so factors are duplicated.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(d *deps, db storage.Database) error {
				opts := seed.Options{
					UserID:  userID,
					Profile: newProfile(name, goalStart, goalEnd),
				}
				return runSeed(cmd, seed.New(db, d.logger, d.metrics), opts, watch)
			})
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id to write the profile for")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Display name for the profile")
	cmd.Flags().StringVar(&goalStart, "goal-start", "", "Sleep goal bed time as HHMM")
	cmd.Flags().StringVar(&goalEnd, "goal-end", "", "Sleep goal wake time as HHMM")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Keep printing the catalog as it changes")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runSeed(cmd *cobra.Command, s *seed.Seeder, opts seed.Options, watch bool) error {
	res, err := s.Run(cmd.Context(), opts)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pushed %d factors, profile %s/%s has %d\n",
		len(res.FactorIDs), seed.UsersPath, opts.UserID, len(res.UserFactors))

	if !watch {
		return nil
	}
	err = s.Watch(cmd.Context(), func(factors map[string]internal.SleepFactor) {
		fmt.Fprintln(out, render.Factors(factors))
	})
	if cmd.Context().Err() != nil {
		return nil
	}
	return err
}

func newProfile(name, goalStart, goalEnd string) internal.UserProfile {
	return internal.UserProfile{
		Name:            name,
		SleepGoalStart:  goalStart,
		SleepGoalEnd:    goalEnd,
		LogReminderOn:   true,
		SleepReminderOn: true,
	}
}
