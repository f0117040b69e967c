package recurrence

import (
	"testing"
	"time"

	"github.com/OmarGodoy2077/AhorrAI-sub000/internal/calendar"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("invalid test date %q: %v", s, err)
	}
	return d
}

func TestFirstOccurrence(t *testing.T) {
	tests := []struct {
		name      string
		freq      Frequency
		salaryDay int
		start     string
		want      string
	}{
		{"monthly salary day after start", Monthly, 15, "2024-01-10", "2024-01-15"},
		{"monthly salary day on start", Monthly, 10, "2024-01-10", "2024-01-10"},
		{"monthly salary day before start rolls over", Monthly, 5, "2024-01-10", "2024-02-05"},
		{"monthly day 31 clamps in short month", Monthly, 31, "2024-04-01", "2024-04-30"},
		{"monthly day 31 clamps in february", Monthly, 31, "2024-02-01", "2024-02-29"},
		{"weekly monday from wednesday", Weekly, 1, "2024-01-10", "2024-01-15"},
		{"weekly same weekday skips start", Weekly, 3, "2024-01-10", "2024-01-17"},
		{"weekly sunday", Weekly, 0, "2024-01-10", "2024-01-14"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FirstOccurrence(tt.freq, tt.salaryDay, date(t, tt.start))
			if !got.Equal(date(t, tt.want)) {
				t.Errorf("FirstOccurrence() = %s, want %s", calendar.FormatDate(got), tt.want)
			}
		})
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name       string
		freq       Frequency
		salaryDay  int
		occurrence string
		want       string
	}{
		{"monthly plain", Monthly, 15, "2024-01-15", "2024-02-15"},
		{"monthly into short month clamps", Monthly, 31, "2024-01-31", "2024-02-29"},
		{"monthly re-anchors after clamp", Monthly, 31, "2024-02-29", "2024-03-31"},
		{"monthly re-anchors after 30-day clamp", Monthly, 31, "2024-04-30", "2024-05-31"},
		{"weekly", Weekly, 1, "2024-01-15", "2024-01-22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.freq, tt.salaryDay, date(t, tt.occurrence))
			if !got.Equal(date(t, tt.want)) {
				t.Errorf("Next() = %s, want %s", calendar.FormatDate(got), tt.want)
			}
		})
	}
}

func TestOccurrencesThrough(t *testing.T) {
	t.Run("monthly backlog", func(t *testing.T) {
		got := OccurrencesThrough(Monthly, 15, date(t, "2024-01-10"), date(t, "2024-03-20"))
		want := []string{"2024-01-15", "2024-02-15", "2024-03-15"}
		if len(got) != len(want) {
			t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
		}
		for i, w := range want {
			if !got[i].Equal(date(t, w)) {
				t.Errorf("occurrence %d = %s, want %s", i, calendar.FormatDate(got[i]), w)
			}
		}
	})

	t.Run("weekly backlog", func(t *testing.T) {
		got := OccurrencesThrough(Weekly, 5, date(t, "2024-01-01"), date(t, "2024-01-20"))
		want := []string{"2024-01-05", "2024-01-12", "2024-01-19"}
		if len(got) != len(want) {
			t.Fatalf("expected %d occurrences, got %d", len(want), len(got))
		}
		for i, w := range want {
			if !got[i].Equal(date(t, w)) {
				t.Errorf("occurrence %d = %s, want %s", i, calendar.FormatDate(got[i]), w)
			}
		}
	})

	t.Run("future start yields none", func(t *testing.T) {
		got := OccurrencesThrough(Monthly, 15, date(t, "2024-06-01"), date(t, "2024-03-20"))
		if len(got) != 0 {
			t.Errorf("expected no occurrences, got %d", len(got))
		}
	})

	t.Run("through equal to occurrence is inclusive", func(t *testing.T) {
		got := OccurrencesThrough(Monthly, 15, date(t, "2024-01-10"), date(t, "2024-01-15"))
		if len(got) != 1 {
			t.Fatalf("expected 1 occurrence, got %d", len(got))
		}
	})
}

func TestNextAfter(t *testing.T) {
	tests := []struct {
		name      string
		freq      Frequency
		salaryDay int
		start     string
		after     string
		want      string
	}{
		{"monthly mid-backlog", Monthly, 15, "2024-01-10", "2024-03-20", "2024-04-15"},
		{"monthly before first", Monthly, 15, "2024-06-01", "2024-03-20", "2024-06-15"},
		{"monthly on occurrence is exclusive", Monthly, 15, "2024-01-10", "2024-01-15", "2024-02-15"},
		{"weekly", Weekly, 1, "2024-01-10", "2024-01-15", "2024-01-22"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextAfter(tt.freq, tt.salaryDay, date(t, tt.start), date(t, tt.after))
			if !got.Equal(date(t, tt.want)) {
				t.Errorf("NextAfter() = %s, want %s", calendar.FormatDate(got), tt.want)
			}
		})
	}
}

func TestNextMonthlyAfter(t *testing.T) {
	tests := []struct {
		name      string
		salaryDay int
		after     string
		want      string
	}{
		{"confirmation mid-month", 15, "2024-03-20", "2024-04-15"},
		{"confirmation early in month", 15, "2024-03-10", "2024-04-15"},
		{"clamped next month", 31, "2024-01-20", "2024-02-29"},
		{"late confirmation rolls forward", 1, "2024-03-31", "2024-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NextMonthlyAfter(tt.salaryDay, date(t, tt.after))
			if !got.Equal(date(t, tt.want)) {
				t.Errorf("NextMonthlyAfter() = %s, want %s", calendar.FormatDate(got), tt.want)
			}
		})
	}
}

func TestFrequencyValid(t *testing.T) {
	if !Monthly.Valid() || !Weekly.Valid() {
		t.Error("monthly and weekly must be valid")
	}
	if Frequency("daily").Valid() {
		t.Error("daily must not be valid")
	}
	if Frequency("").Valid() {
		t.Error("empty frequency must not be valid")
	}
}
