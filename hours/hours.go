package hours

import (
	"fmt"
	"time"
)

var helsinkiLoc *time.Location

// Finnish weekday abbreviations, indexed by time.Weekday (Sunday first).
var weekdaysFi = [7]string{"su", "ma", "ti", "ke", "to", "pe", "la"}

func init() {
	var err error
	helsinkiLoc, err = time.LoadLocation("Europe/Helsinki")
	if err != nil {
		panic(fmt.Sprintf("failed to load Helsinki location: %v", err))
	}
}

func LocationHelsinki(t time.Time) time.Time {
	return t.In(helsinkiLoc)
}

// TruncateToHour drops everything below the hour. The whole
// generation run keys off the truncated "now".
func TruncateToHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

// DayFi formats a timestamp as a Finnish table date, e.g. "ma 3.2.".
// Day and month are written without leading zeros.
func DayFi(t time.Time) string {
	local := t.In(helsinkiLoc)
	return fmt.Sprintf("%s %d.%d.", weekdaysFi[local.Weekday()], local.Day(), int(local.Month()))
}

// HourLabel formats the start of an hour slot, e.g. "08".
func HourLabel(t time.Time) string {
	return t.In(helsinkiLoc).Format("15")
}

// QuarterLabel formats the start of a 15-minute slot, e.g. "08:45".
func QuarterLabel(t time.Time) string {
	return t.In(helsinkiLoc).Format("15:04")
}

func FormatStamp(t time.Time) string {
	return t.In(helsinkiLoc).Format("2006-01-02 15:04:05")
}
