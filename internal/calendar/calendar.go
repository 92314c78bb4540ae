// Package calendar holds the week arithmetic the training calendar is built on.
// All values returned here are calendar dates: midnight UTC carrying the
// year, month and day of the input instant.
package calendar

import (
	"time"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

const daysPerWeek = 7

// Date truncates t to its calendar day, keeping t's own wall-clock date.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return Date(now.In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

func AddDays(d time.Time, days int) time.Time {
	return Date(d).AddDate(0, 0, days)
}

func AddWeeks(d time.Time, weeks int) time.Time {
	return AddDays(d, weeks*daysPerWeek)
}

// CompetitionAnchorSunday returns the first Sunday on or after d.
func CompetitionAnchorSunday(d time.Time) time.Time {
	d = Date(d)
	offset := (int(time.Sunday) - int(d.Weekday()) + daysPerWeek) % daysPerWeek
	return AddDays(d, offset)
}

// WeekSpan returns the Monday..Sunday span ending on sunday.
func WeekSpan(sunday time.Time) (monday, end time.Time) {
	end = Date(sunday)
	return AddDays(end, -6), end
}

// CurrentAnchorMonday returns the last Monday on or before today.
func CurrentAnchorMonday(today time.Time) time.Time {
	today = Date(today)
	offset := (int(today.Weekday()) - int(time.Monday) + daysPerWeek) % daysPerWeek
	return AddDays(today, -offset)
}

// DaysBetween counts calendar days from a to b; negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Date(b).Sub(Date(a)).Hours() / 24)
}

// WholeWeeksBetween counts the complete 7-day periods inside the closed span
// [monday, sunday]. A span from a Monday to a Sunday nine weeks and six days
// later holds ten whole weeks. Spans that end before they start count zero.
func WholeWeeksBetween(monday, sunday time.Time) int {
	days := DaysBetween(monday, sunday) + 1
	if days <= 0 {
		return 0
	}
	return days / daysPerWeek
}

// Contains reports whether d falls within the closed interval [start, end].
func Contains(start, end, d time.Time) bool {
	d = Date(d)
	return !d.Before(Date(start)) && !d.After(Date(end))
}
