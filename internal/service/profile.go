package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/entry"
	"github.com/yourname/sleepdiary/internal/seed"
	"github.com/yourname/sleepdiary/internal/storage"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

// ProfileView is a user profile with its sleep goal rendered for display.
type ProfileView struct {
	Profile      internal.UserProfile `json:"profile"`
	GoalBedTime  string               `json:"goalBedTime,omitempty"`
	GoalWakeTime string               `json:"goalWakeTime,omitempty"`
	GoalHours    int                  `json:"goalHours"`
	GoalMinutes  int                  `json:"goalMinutes"`
	Factors      []string             `json:"factors"`
}

func GetProfile(ctx context.Context, db storage.Database, userID string) (*ProfileView, error) {
	users, err := db.Get(ctx, seed.UsersPath)
	if err != nil {
		return nil, err
	}
	raw, ok := users[userID]
	if !ok {
		return nil, fmt.Errorf("profile %s: %w", userID, storage.ErrNotFound)
	}

	var p internal.UserProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("profile %s: %w", userID, err)
	}
	return BuildProfileView(p), nil
}

func BuildProfileView(p internal.UserProfile) *ProfileView {
	v := &ProfileView{Profile: p, Factors: entry.FactorNames(p.UserFactors)}
	if p.SleepGoalStart != "" && p.SleepGoalEnd != "" {
		v.GoalBedTime = timefmt.DecodeToAmPm(p.SleepGoalStart)
		v.GoalWakeTime = timefmt.DecodeToAmPm(p.SleepGoalEnd)
		v.GoalHours, v.GoalMinutes = timefmt.SplitDuration(timefmt.SleepDuration(p.SleepGoalStart, p.SleepGoalEnd))
	}
	return v
}
