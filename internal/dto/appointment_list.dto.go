package dto

import "github.com/BruksfildServices01/detailing-scheduler/internal/models"

type AppointmentListDTO struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	TimeSlot         string   `json:"time_slot"`
	Status           string   `json:"status"`
	CustomerName     string   `json:"customer_name"`
	CustomerEmail    string   `json:"customer_email"`
	Service          string   `json:"service"`
	Services         []string `json:"services,omitempty"`
	Guest            bool     `json:"guest"`
	RescheduleCount  int      `json:"reschedule_count"`
	CalendarEventURL string   `json:"calendar_event_url,omitempty"`
}

func AppointmentList(apps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(apps))
	for i := range apps {
		ap := &apps[i]
		out = append(out, AppointmentListDTO{
			ID:               ap.ID,
			Date:             ap.Date,
			TimeSlot:         ap.TimeSlot,
			Status:           ap.Status,
			CustomerName:     ap.UserName,
			CustomerEmail:    ap.UserEmail,
			Service:          ap.ServiceLabel(),
			Services:         ap.Services,
			Guest:            ap.IsGuest(),
			RescheduleCount:  ap.RescheduleCount,
			CalendarEventURL: ap.CalendarEventURL,
		})
	}
	return out
}
