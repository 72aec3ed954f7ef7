package appointment

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

const (
	DateLayout = "2006-01-02"
	SlotLayout = "15:04"

	// DefaultStartTime is used when an appointment carries no time label.
	DefaultStartTime = "09:00"
)

var clockLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"03:04PM",
	"15:04:05",
}

// ParseClock accepts 24-hour "HH:MM" and 12-hour "h:mm AM/PM" labels.
func ParseClock(label string) (hour, minute int, err error) {
	v := strings.ToUpper(strings.TrimSpace(label))
	for _, layout := range clockLayouts {
		if t, perr := time.Parse(layout, v); perr == nil {
			return t.Hour(), t.Minute(), nil
		}
	}
	return 0, 0, httperr.ErrBusiness("invalid_time")
}

// CanonicalSlot normalises a time label to "HH:MM".
func CanonicalSlot(label string) (string, error) {
	h, m, err := ParseClock(label)
	if err != nil {
		return "", err
	}
	return time.Date(2000, 1, 1, h, m, 0, 0, time.UTC).Format(SlotLayout), nil
}

func ParseDate(value string, loc *time.Location) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	d, err := time.ParseInLocation(DateLayout, v, loc)
	if err != nil {
		return time.Time{}, httperr.ErrBusiness("invalid_date")
	}
	return d, nil
}

// StartAt combines a calendar day and a time label into one instant in loc.
// An empty label falls back to DefaultStartTime.
func StartAt(date, label string, loc *time.Location) (time.Time, error) {
	day, err := ParseDate(date, loc)
	if err != nil {
		return time.Time{}, err
	}
	if strings.TrimSpace(label) == "" {
		label = DefaultStartTime
	}
	h, m, err := ParseClock(label)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, loc), nil
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
