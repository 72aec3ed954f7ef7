package timezone

import "time"

const DefaultTimezone = "America/New_York"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location resolves tz, falling back to DefaultTimezone and then UTC.
func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// Clock is the time source threaded through use cases and jobs.
type Clock func() time.Time

func ClockIn(loc *time.Location) Clock {
	return func() time.Time {
		return time.Now().In(loc)
	}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
