// Package calendar provides timezone-correct date utilities for the
// America/Guatemala timezone. All user-facing dates in AhorrAI are plain
// calendar dates; this package keeps them stable regardless of the
// server's locale by representing them as UTC-midnight instants.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

var location = mustLoadLocation()

func mustLoadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Guatemala")
	if err != nil {
		// Guatemala has no DST; a fixed UTC-6 offset is equivalent.
		return time.FixedZone("America/Guatemala", -6*60*60)
	}
	return loc
}

// Now returns the current wall-clock time in Guatemala.
func Now() time.Time {
	return time.Now().In(location)
}

// Today returns the current Guatemala calendar date as a UTC-midnight
// time.Time, suitable for comparison against parsed calendar dates.
func Today() time.Time {
	now := Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate interprets a "YYYY-MM-DD" string as a local calendar date with
// no timezone shift. Naive ISO parsing in a UTC context moves Guatemala
// dates back one day; this never does.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a calendar date as "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOnly strips the time-of-day and timezone from t, keeping the
// calendar date as observed in t's own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var spanishMonths = [...]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// SpanishMonthName returns the Spanish name of a month, used to suffix
// generated salary income names.
func SpanishMonthName(m time.Month) string {
	return spanishMonths[int(m)-1]
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
