// Package timeutil provides utility functions and types for working with
// time-related operations.
package timeutil

import (
	"fmt"
	"math"
	"time"
)

const minutesInAnHour = 60

// keyLayout is a fixed-width RFC 3339 layout so that keys sort
// chronologically as bytes.
const keyLayout = "2006-01-02T15:04:05.000000000Z07:00"

type Period string

const (
	PeriodAllTime   Period = "all-time"
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	Period7Days     Period = "7days"
	Period14Days    Period = "14days"
	Period30Days    Period = "30days"
	Period90Days    Period = "90days"
	Period180Days   Period = "180days"
	Period365Days   Period = "365days"
)

var Range = map[Period]int{
	PeriodAllTime:   0,
	PeriodToday:     0,
	PeriodYesterday: -1,
	Period7Days:     -6,
	Period14Days:    -13,
	Period30Days:    -29,
	Period90Days:    -89,
	Period180Days:   -179,
	Period365Days:   -364,
}

var PeriodCollection = []Period{
	PeriodAllTime,
	PeriodToday,
	PeriodYesterday,
	Period7Days,
	Period14Days,
	Period30Days,
	Period90Days,
	Period180Days,
	Period365Days,
}

// MinsToHoursAndMins expresses a minutes value in hours and mins.
func MinsToHoursAndMins(val int) (hrs, mins int) {
	hrs = int(math.Floor(float64(val) / float64(minutesInAnHour)))
	mins = val % minutesInAnHour

	return
}

// Clock formats a countdown as MM:SS. Minutes are not wrapped into hours.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	secs := int(d / time.Second)

	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Worked formats a number of seconds as a compact duration such as
// "1h 05m", "25m 00s" or "42s".
func Worked(seconds int) string {
	if seconds < minutesInAnHour {
		return fmt.Sprintf("%ds", seconds)
	}

	hrs, mins := MinsToHoursAndMins(seconds / minutesInAnHour)
	if hrs > 0 {
		return fmt.Sprintf("%dh %02dm", hrs, mins)
	}

	return fmt.Sprintf("%dm %02ds", mins, seconds%minutesInAnHour)
}

// RoundToStart resets the given time to the start of the day.
func RoundToStart(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		0,
		0,
		0,
		0,
		t.Location(),
	)
}

// RoundToEnd resets the given time to the end of the day.
func RoundToEnd(t time.Time) time.Time {
	return time.Date(
		t.Year(),
		t.Month(),
		t.Day(),
		23,
		59,
		59,
		0,
		t.Location(),
	)
}

// ToKey converts a time value to a database key for Bolt.
func ToKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

// FromKey parses a key produced by ToKey.
func FromKey(k []byte) (time.Time, error) {
	return time.Parse(keyLayout, string(k))
}
