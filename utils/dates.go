// utils/dates.go
package utils

import "time"

// ParseDate parses a calendar date ("2006-01-02", RFC3339 also accepted)
// and pins it to UTC midnight so month/day math is timezone-safe.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseTimestamp parses an RFC3339 timestamp, falling back to a bare date.
func ParseTimestamp(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// SameMonth reports whether a and b fall in the same UTC calendar month.
func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// NextCalendarMonth returns the (year, month) one calendar month after t,
// rolling December over to January of the following year.
func NextCalendarMonth(t time.Time) (int, time.Month) {
	t = t.UTC()
	if t.Month() == time.December {
		return t.Year() + 1, time.January
	}
	return t.Year(), t.Month() + 1
}

// AgeAt returns full years elapsed between birth and now.
func AgeAt(birth, now time.Time) int {
	birth, now = birth.UTC(), now.UTC()
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}
