package internal

type User struct {
	ID    string `json:"id"`
	Token string `json:"token"`
	Name  string `json:"name"`
}

type FactorCategory string

const (
	CategoryChemical    FactorCategory = "chemical"
	CategoryPractice    FactorCategory = "practice"
	CategoryEnvironment FactorCategory = "environment"
)

// SleepFactor is a catalog record describing something that may have affected a night's sleep.
type SleepFactor struct {
	Name     string         `json:"name" validate:"required"`
	Category FactorCategory `json:"category,omitempty" validate:"omitempty,oneof=chemical practice environment"`
}

// SleepEntry is one logged night of sleep.
// StartTime and EndTime are "HHMM" strings; EndTime may fall on the day after Date.
type SleepEntry struct {
	Date         string                 `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime    string                 `json:"startTime" validate:"required,len=4,numeric"`
	EndTime      string                 `json:"endTime" validate:"required,len=4,numeric"`
	Quality      int                    `json:"quality" validate:"gte=0,lte=100"`
	EntryFactors map[string]SleepFactor `json:"entryFactors,omitempty" validate:"dive"`
	Notes        string                 `json:"notes"`
}

type UserProfile struct {
	Name            string                 `json:"name" validate:"required"`
	SleepGoalStart  string                 `json:"sleepGoalStart" validate:"omitempty,len=4,numeric"`
	SleepGoalEnd    string                 `json:"sleepGoalEnd" validate:"omitempty,len=4,numeric"`
	UserFactors     map[string]SleepFactor `json:"userFactors"`
	LogReminderOn   bool                   `json:"logReminderOn"`
	SleepReminderOn bool                   `json:"sleepReminderOn"`
}
