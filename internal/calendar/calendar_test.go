package calendar

import (
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	// Naive ISO parsing in a UTC process shifts Guatemala dates back a day;
	// the round trip must preserve the literal calendar date.
	for _, s := range []string{"2024-01-01", "2024-02-29", "2024-12-31"} {
		d, err := ParseDate(s)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", s, err)
		}
		if got := FormatDate(d); got != s {
			t.Errorf("round trip of %q = %q", s, got)
		}
		if h, m, sec := d.Clock(); h != 0 || m != 0 || sec != 0 {
			t.Errorf("parsed date %q has non-midnight time %02d:%02d:%02d", s, h, m, sec)
		}
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "01/15/2024", "2024-1-5"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) should fail", s)
		}
	}
}

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("America/Guatemala", -6*60*60)
	// 23:30 in Guatemala is already the next day in UTC; the calendar date
	// must stay on the local day.
	instant := time.Date(2024, 3, 15, 23, 30, 0, 0, loc)
	got := DateOnly(instant)
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly() = %s, want %s", got, want)
	}
}

func TestSpanishMonthName(t *testing.T) {
	tests := []struct {
		month time.Month
		want  string
	}{
		{time.January, "Enero"},
		{time.September, "Septiembre"},
		{time.December, "Diciembre"},
	}
	for _, tt := range tests {
		if got := SpanishMonthName(tt.month); got != tt.want {
			t.Errorf("SpanishMonthName(%v) = %q, want %q", tt.month, got, tt.want)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year  int
		month time.Month
		want  int
	}{
		{2024, time.February, 29},
		{2023, time.February, 28},
		{2024, time.April, 30},
		{2024, time.December, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
