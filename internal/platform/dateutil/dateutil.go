// Package dateutil handles timezone-naive calendar days encoded as "2006-01-02".
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Day converts t to the calendar day it falls on in loc (UTC when nil).
func Day(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(Layout)
}

func Parse(day string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(day), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", day, err)
	}
	return t, nil
}

func Valid(day string) bool {
	_, err := Parse(day)
	return err == nil
}

// AddDays shifts day by n calendar days. Invalid input is returned unchanged.
func AddDays(day string, n int) string {
	t, err := Parse(day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, n).Format(Layout)
}

// DaysBetween returns to - from in whole calendar days.
func DaysBetween(from, to string) int {
	a, errA := Parse(from)
	b, errB := Parse(to)
	if errA != nil || errB != nil {
		return 0
	}
	return int(b.Sub(a).Hours() / 24)
}

// WeekdayIndex maps Monday to 0 through Sunday to 6.
func WeekdayIndex(day string) int {
	t, err := Parse(day)
	if err != nil {
		return 0
	}
	return (int(t.Weekday()) + 6) % 7
}

// Range lists every day from start to end inclusive.
func Range(start, end string) []string {
	n := DaysBetween(start, end)
	if n < 0 {
		return nil
	}
	out := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, AddDays(start, i))
	}
	return out
}

// Clock formats minutes since midnight as "15:04".
func Clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseClock parses "15:04" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// StartOf is midnight of day in loc (UTC when nil). Invalid input yields the zero time.
func StartOf(day string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(Layout, strings.TrimSpace(day), loc)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Span returns [StartOf(from), StartOf(to+1)) for an inclusive day range.
func Span(from, to string, loc *time.Location) (time.Time, time.Time) {
	return StartOf(from, loc), StartOf(AddDays(to, 1), loc)
}
