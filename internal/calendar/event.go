package calendar

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

const DefaultEventDuration = 2 * time.Hour

// ReminderOffsets are the popup reminders set on every mirrored event.
var ReminderOffsets = []int64{24 * 60, 2 * 60, 30}

// Event is the provider-neutral shape of a mirrored appointment.
type Event struct {
	Summary         string
	Description     string
	Location        string
	Start           time.Time
	End             time.Time
	TimeZone        string
	AttendeeEmail   string
	ReminderMinutes []int64
}

type EventRef struct {
	ID  string
	URL string
}

// BuildEvent maps an appointment onto an event in loc.
func BuildEvent(ap *models.Appointment, loc *time.Location, duration time.Duration) (Event, error) {
	start, err := domain.StartAt(ap.Date, ap.TimeSlot, loc)
	if err != nil {
		return Event{}, fmt.Errorf("calendar: event start: %w", err)
	}
	if duration <= 0 {
		duration = DefaultEventDuration
	}

	return Event{
		Summary:         Summary(ap),
		Description:     Description(ap),
		Location:        formatAddress(ap.Address),
		Start:           start,
		End:             start.Add(duration),
		TimeZone:        loc.String(),
		AttendeeEmail:   strings.TrimSpace(ap.UserEmail),
		ReminderMinutes: append([]int64(nil), ReminderOffsets...),
	}, nil
}

func Summary(ap *models.Appointment) string {
	name := ap.UserName
	if name == "" {
		name = "Guest"
	}
	return fmt.Sprintf("[%s] %s - %s", strings.ToUpper(ap.Status), ap.ServiceLabel(), name)
}

func Description(ap *models.Appointment) string {
	var b strings.Builder
	line := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}

	line("Customer", ap.UserName)
	line("Email", ap.UserEmail)
	line("Phone", ap.UserPhone)
	line("Service", ap.ServiceLabel())
	line("Category", ap.Category)
	line("Address", formatAddress(ap.Address))
	line("Status", ap.Status)
	if !ap.EstimatedPrice.IsZero() {
		line("Estimated price", "$"+ap.EstimatedPrice.StringFixed(2))
	}
	if !ap.FinalPrice.IsZero() {
		line("Final price", "$"+ap.FinalPrice.StringFixed(2))
	}
	line("Payment status", ap.PaymentStatus)
	line("Notes", ap.Notes)
	line("Appointment ID", ap.ID)

	return strings.TrimRight(b.String(), "\n")
}

func formatAddress(a models.Address) string {
	parts := make([]string, 0, 3)
	if a.Street != "" {
		parts = append(parts, a.Street)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	stateZip := strings.TrimSpace(a.State + " " + a.Zip)
	if stateZip != "" {
		parts = append(parts, stateZip)
	}
	return strings.Join(parts, ", ")
}
