package timefmt

import "time"

const (
	// DateLayout is the canonical form of SleepEntry.Date.
	DateLayout = "2006-01-02"
	// DisplayLayout is how dates appear on the entry screen.
	DisplayLayout = "Monday, January 2, 2006"
)

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// DateUtil is what the presenter needs from the calendar.
type DateUtil interface {
	Yesterday() string
	ReformatDate(date string) string
}

type Dates struct {
	clock Clock
}

func NewDates(clock Clock) *Dates {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Dates{clock: clock}
}

// Yesterday is the calendar day before today in the clock's location.
func (d *Dates) Yesterday() string {
	now := d.clock.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -1).Format(DateLayout)
}

// ReformatDate renders a canonical date for people. Anything that does not
// parse is returned as is.
func (d *Dates) ReformatDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(DisplayLayout)
}

var _ DateUtil = (*Dates)(nil)
