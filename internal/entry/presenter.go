package entry

import (
	"fmt"
	"sort"

	"github.com/yourname/sleepdiary/internal"
	"github.com/yourname/sleepdiary/internal/timefmt"
)

// ViewModel is everything the entry screen shows. Empty strings mean the
// field has nothing to display.
type ViewModel struct {
	Title           string   `json:"title"`
	FormattedDate   string   `json:"formattedDate"`
	BedTime         string   `json:"bedTime"`
	WakeTime        string   `json:"wakeTime"`
	HasDuration     bool     `json:"hasDuration"`
	DurationHours   int      `json:"durationHours"`
	DurationMinutes int      `json:"durationMinutes"`
	Duration        string   `json:"duration"`
	Quality         string   `json:"quality"`
	Factors         []string `json:"factors"`
	Notes           string   `json:"notes"`
	CanEdit         bool     `json:"canEdit"`
}

// Derive builds the view for e. fromFallback is whether the entry came from
// the cached yesterday's entry; a date equal to yesterday enables editing too.
func Derive(e *internal.SleepEntry, fromFallback bool, dates timefmt.DateUtil) ViewModel {
	vm := ViewModel{
		Title:   "Overview for",
		Factors: []string{},
		CanEdit: fromFallback,
	}
	if e == nil {
		return vm
	}

	if e.Date != "" {
		vm.FormattedDate = dates.ReformatDate(e.Date)
		vm.Title += " " + vm.FormattedDate
	}
	if e.StartTime != "" {
		vm.BedTime = timefmt.DecodeToAmPm(e.StartTime)
	}
	if e.EndTime != "" {
		vm.WakeTime = timefmt.DecodeToAmPm(e.EndTime)
		vm.HasDuration = true
		vm.DurationHours, vm.DurationMinutes = timefmt.SplitDuration(timefmt.SleepDuration(e.StartTime, e.EndTime))
		vm.Duration = fmt.Sprintf("%d hours, %d minutes", vm.DurationHours, vm.DurationMinutes)
	}
	vm.Quality = fmt.Sprintf("%d%%", e.Quality)
	vm.Factors = FactorNames(e.EntryFactors)
	vm.Notes = e.Notes

	if e.Date != "" && e.Date == dates.Yesterday() {
		vm.CanEdit = true
	}
	return vm
}

// FactorNames lists one name per factor, ordered by factor id. Pushed ids
// sort chronologically, so this is also the order the factors were added.
func FactorNames(factors map[string]internal.SleepFactor) []string {
	ids := make([]string, 0, len(factors))
	for id := range factors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, factors[id].Name)
	}
	return names
}
