package utils

import (
	"time"

	"github.com/julianstephens/reviewnag/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// InTimezone returns t expressed in the named timezone. An invalid name falls
// back to the system local timezone so policy evaluation never fails.
func InTimezone(t time.Time, timezone string) time.Time {
	loc, err := LoadLocation(timezone)
	if err != nil {
		loc = time.Local
	}
	return t.In(loc)
}

// LocalDate returns the calendar date (YYYY-MM-DD) of t in the named timezone.
func LocalDate(t time.Time, timezone string) string {
	return InTimezone(t, timezone).Format(constants.DateFormat)
}

// SameLocalDay reports whether a and b fall on the same calendar day in the
// named timezone.
func SameLocalDay(a, b time.Time, timezone string) bool {
	return LocalDate(a, timezone) == LocalDate(b, timezone)
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	if timezone == "" || timezone == "Local" {
		return true
	}
	_, err := time.LoadLocation(timezone)
	return err == nil
}
