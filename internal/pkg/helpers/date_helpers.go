package helpers

import (
	"fmt"
	"strings"
	"time"
)

// Layouts used at the API boundary (display) and in storage (ISO).
const (
	DisplayDateLayout     = "02/01/2006"
	DisplayDateTimeLayout = "02/01/2006 15:04"
	ISODateLayout         = "2006-01-02"
	ISODateTimeLayout     = "2006-01-02 15:04:05"
	ClockLayout           = "15:04"
)

// Dates are handled as wall-clock values of the association's time zone,
// carried in time.Time with the UTC location. This matches how TIMESTAMP
// and DATE columns come back from PostgreSQL.

// WallClock converts an instant to its wall-clock value in loc.
func WallClock(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	l := t.In(loc)
	return time.Date(l.Year(), l.Month(), l.Day(), l.Hour(), l.Minute(), l.Second(), 0, time.UTC)
}

// StartOfDay truncates a wall-clock value to midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDisplayDate parses DD/MM/YYYY.
func ParseDisplayDate(s string) (time.Time, error) {
	t, err := time.Parse(DisplayDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected DD/MM/YYYY", s)
	}
	return t, nil
}

// ParseDisplayDateTime parses DD/MM/YYYY HH:MM.
func ParseDisplayDateTime(s string) (time.Time, error) {
	t, err := time.Parse(DisplayDateTimeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date and time %q, expected DD/MM/YYYY HH:MM", s)
	}
	return t, nil
}

// ParseClock parses HH:MM and returns the offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// FormatClock renders an offset from midnight as HH:MM.
func FormatClock(d time.Duration) string {
	return time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(d).Format(ClockLayout)
}

// FormatDisplayDate renders DD/MM/YYYY.
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// FormatDisplayDateTime renders DD/MM/YYYY HH:MM.
func FormatDisplayDateTime(t time.Time) string {
	return t.Format(DisplayDateTimeLayout)
}

// DisplayToISO converts DD/MM/YYYY to YYYY-MM-DD and DD/MM/YYYY HH:MM to YYYY-MM-DD HH:MM:SS.
func DisplayToISO(s string) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DisplayDateTimeLayout, s); err == nil {
		return t.Format(ISODateTimeLayout), nil
	}
	if t, err := time.Parse(DisplayDateLayout, s); err == nil {
		return t.Format(ISODateLayout), nil
	}
	return "", fmt.Errorf("invalid display date %q", s)
}

// ISOToDisplay is the inverse of DisplayToISO. It also accepts the T separator and
// a time without seconds.
func ISOToDisplay(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{ISODateTimeLayout, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DisplayDateTimeLayout), nil
		}
	}
	if t, err := time.Parse(ISODateLayout, s); err == nil {
		return t.Format(DisplayDateLayout), nil
	}
	return "", fmt.Errorf("invalid ISO date %q", s)
}
