// Package recurrence implements the occurrence math for salary schedules.
// Everything here is pure: callers supply the reference date, so the same
// inputs always yield the same occurrences.
package recurrence

import (
	"time"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
)

// Frequency is the cadence of a fixed salary schedule.
type Frequency string

const (
	Monthly Frequency = "monthly"
	Weekly  Frequency = "weekly"
)

// Valid reports whether f is a supported frequency.
func (f Frequency) Valid() bool {
	return f == Monthly || f == Weekly
}

// monthlyDate returns salaryDay anchored in the given year/month, clamped
// to the last day when the month is shorter (policy: 31 in February pays on
// February's last day; the anchor day is preserved for later months).
func monthlyDate(year int, month time.Month, salaryDay int) time.Time {
	day := salaryDay
	if last := calendar.DaysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// FirstOccurrence computes the first pay date of a schedule.
//
// Monthly: salaryDay in start's month; if that date precedes start, the
// occurrence moves to the following month.
// Weekly: the next date on/after start whose weekday equals salaryDay; when
// start already falls on that weekday a full week is added, so the start
// date itself is never generated.
func FirstOccurrence(freq Frequency, salaryDay int, start time.Time) time.Time {
	start = calendar.DateOnly(start)
	switch freq {
	case Monthly:
		occ := monthlyDate(start.Year(), start.Month(), salaryDay)
		if occ.Before(start) {
			occ = monthlyDate(start.Year(), start.Month()+1, salaryDay)
		}
		return occ
	case Weekly:
		offset := (salaryDay - int(start.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		return start.AddDate(0, 0, offset)
	}
	return time.Time{}
}

// Next advances one period past the given occurrence. Monthly re-anchors to
// salaryDay in the following month, so a clamped February occurrence does
// not drag later months down to the 28th.
func Next(freq Frequency, salaryDay int, occurrence time.Time) time.Time {
	occurrence = calendar.DateOnly(occurrence)
	switch freq {
	case Monthly:
		return monthlyDate(occurrence.Year(), occurrence.Month()+1, salaryDay)
	case Weekly:
		return occurrence.AddDate(0, 0, 7)
	}
	return time.Time{}
}

// OccurrencesThrough returns, in order, every occurrence from the
// schedule's start up to and including the reference date. A start in the
// future yields no occurrences.
func OccurrencesThrough(freq Frequency, salaryDay int, start, through time.Time) []time.Time {
	through = calendar.DateOnly(through)
	var out []time.Time
	for occ := FirstOccurrence(freq, salaryDay, start); !occ.After(through); occ = Next(freq, salaryDay, occ) {
		out = append(out, occ)
	}
	return out
}

// NextAfter returns the first occurrence strictly after the reference date.
func NextAfter(freq Frequency, salaryDay int, start, after time.Time) time.Time {
	after = calendar.DateOnly(after)
	occ := FirstOccurrence(freq, salaryDay, start)
	for !occ.After(after) {
		occ = Next(freq, salaryDay, occ)
	}
	return occ
}

// NextMonthlyAfter computes the confirmation-time advancement for monthly
// schedules: salaryDay in the month following the reference date's month,
// rolled forward until strictly in the future. The anchor day, not the
// confirmation date, determines the result.
func NextMonthlyAfter(salaryDay int, after time.Time) time.Time {
	after = calendar.DateOnly(after)
	occ := monthlyDate(after.Year(), after.Month()+1, salaryDay)
	for !occ.After(after) {
		occ = monthlyDate(occ.Year(), occ.Month()+1, salaryDay)
	}
	return occ
}
