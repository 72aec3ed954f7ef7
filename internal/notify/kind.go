package notify

import "github.com/BruksfildServices01/detailing-scheduler/internal/models"

type Kind string

const (
	KindCreated       Kind = "created"
	KindStatusChanged Kind = "status_changed"
	KindReminder24h   Kind = "reminder_24h"
	KindReminder2h    Kind = "reminder_2h"
	KindDayBefore     Kind = "day_before"
	KindFollowUp      Kind = "follow_up"

	// KindSupportAlert is internal-only and never reaches the customer.
	KindSupportAlert Kind = "support_alert"
)

type channelPolicy struct {
	inApp         bool
	email         bool
	requiresOptIn bool
}

var policies = map[Kind]channelPolicy{
	KindCreated:       {inApp: true, email: true},
	KindStatusChanged: {inApp: true, email: true},
	KindReminder24h:   {email: true, requiresOptIn: true},
	KindReminder2h:    {email: true, requiresOptIn: true},
	KindDayBefore:     {inApp: true, email: true},
	KindFollowUp:      {inApp: true, email: true},
}

func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	_, ok := policies[k]
	return k, ok
}

type inAppContent struct {
	title   string
	message string
	typ     models.NotificationType
}

func contentFor(ev Event) inAppContent {
	ap := ev.Appointment
	when := ap.Date + " " + ap.TimeSlot
	service := ap.ServiceLabel()

	switch ev.Kind {
	case KindCreated:
		return inAppContent{
			title:   "Booking received",
			message: "Your " + service + " appointment on " + when + " is pending approval.",
			typ:     models.NotificationInfo,
		}
	case KindStatusChanged:
		return statusContent(ap.Status, service, when)
	case KindReminder24h, KindReminder2h, KindDayBefore:
		return inAppContent{
			title:   "Upcoming appointment",
			message: "Reminder: your " + service + " appointment is on " + when + ".",
			typ:     models.NotificationInfo,
		}
	case KindFollowUp:
		return inAppContent{
			title:   "Time for another detail?",
			message: "It has been a while since your " + service + ". Book your next visit any time.",
			typ:     models.NotificationInfo,
		}
	}
	return inAppContent{title: "Appointment update", message: when, typ: models.NotificationInfo}
}

func statusContent(status, service, when string) inAppContent {
	switch status {
	case "approved", "confirmed":
		return inAppContent{
			title:   "Appointment " + status,
			message: "Your " + service + " appointment on " + when + " is " + status + ".",
			typ:     models.NotificationSuccess,
		}
	case "completed":
		return inAppContent{
			title:   "Appointment completed",
			message: "Thanks for choosing us for your " + service + ".",
			typ:     models.NotificationSuccess,
		}
	case "rejected":
		return inAppContent{
			title:   "Appointment rejected",
			message: "We could not accept your " + service + " appointment on " + when + ".",
			typ:     models.NotificationError,
		}
	case "cancelled":
		return inAppContent{
			title:   "Appointment cancelled",
			message: "Your " + service + " appointment on " + when + " was cancelled.",
			typ:     models.NotificationWarning,
		}
	}
	return inAppContent{
		title:   "Appointment updated",
		message: "Your " + service + " appointment on " + when + " is now " + status + ".",
		typ:     models.NotificationInfo,
	}
}
