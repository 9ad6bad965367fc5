// Package timefmt converts between wall-clock times and the four digit "HHMM"
// strings the sleep diary stores, and formats calendar dates for display.
package timefmt

import (
	"strconv"
	"time"
)

// EncodeMilitary returns t as "HHMM". Each part is padded to two characters
// only when shorter; nothing is truncated.
func EncodeMilitary(t time.Time) string {
	return pad2(strconv.Itoa(t.Hour())) + pad2(strconv.Itoa(t.Minute()))
}

func pad2(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// DecodeToAmPm turns "HHMM" into "H:MM AM" / "H:MM PM".
//
// Input is sliced by position and never validated: a non-numeric hour reads
// as 0 and the minute part is whatever the last two characters are.
func DecodeToAmPm(military string) string {
	raw := head(military, 2)
	hour := atoiLenient(raw)

	var hourStr string
	if hour > 12 {
		hourStr = strconv.Itoa(hour - 12)
	} else {
		hourStr = strconv.Itoa(hour)
	}
	if raw == "00" {
		hourStr = "12"
	}

	designator := "AM"
	if hour > 11 {
		designator = "PM"
	}
	return hourStr + ":" + tail(military, 2) + " " + designator
}

// MinutesSinceMidnight reads "HHMM" by position. Unparseable parts count as 0.
func MinutesSinceMidnight(military string) int {
	return atoiLenient(head(military, 2))*60 + atoiLenient(tail(military, 2))
}

func head(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func tail(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[len(s)-n:]
}

func atoiLenient(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
