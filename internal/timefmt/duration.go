package timefmt

import "math"

const minutesPerDay = 24 * 60

// SleepDuration returns the hours between two "HHMM" times. An end earlier
// than the start is taken to be on the following day.
func SleepDuration(start, end string) float64 {
	startMin := MinutesSinceMidnight(start)
	endMin := MinutesSinceMidnight(end)
	if endMin < startMin {
		endMin += minutesPerDay
	}
	return float64(endMin-startMin) / 60.0
}

// SplitDuration breaks fractional hours into whole hours and the remaining
// minutes, both rounded down.
func SplitDuration(hours float64) (whole, minutes int) {
	floor := math.Floor(hours)
	return int(floor), int(math.Floor((hours - floor) * 60))
}
