package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/detailing-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/detailing-scheduler/internal/dto"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

type ListAppointmentsByDate struct {
	repo  domain.Repository
	rules BookingRules
}

func NewListAppointmentsByDate(repo domain.Repository, rules BookingRules) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo, rules: rules}
}

func (uc *ListAppointmentsByDate) Execute(ctx context.Context, date string) ([]dto.AppointmentListDTO, error) {
	day, err := domain.ParseDate(date, uc.rules.location())
	if err != nil {
		return nil, err
	}

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		domain.FormatDate(day),
		domain.FormatDate(day.AddDate(0, 0, 1)),
	)
	if err != nil {
		return nil, err
	}
	return dto.AppointmentList(appointments), nil
}

type ListAppointmentsByMonth struct {
	repo  domain.Repository
	rules BookingRules
}

func NewListAppointmentsByMonth(repo domain.Repository, rules BookingRules) *ListAppointmentsByMonth {
	return &ListAppointmentsByMonth{repo: repo, rules: rules}
}

func (uc *ListAppointmentsByMonth) Execute(ctx context.Context, year, month int) ([]dto.AppointmentListDTO, error) {
	if year < 2000 || month < 1 || month > 12 {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, uc.rules.location())
	end := start.AddDate(0, 1, 0)

	appointments, err := uc.repo.ListAppointmentsForPeriod(
		ctx,
		domain.FormatDate(start),
		domain.FormatDate(end),
	)
	if err != nil {
		return nil, err
	}
	return dto.AppointmentList(appointments), nil
}

type ListAppointmentsByUser struct {
	repo domain.Repository
}

func NewListAppointmentsByUser(repo domain.Repository) *ListAppointmentsByUser {
	return &ListAppointmentsByUser{repo: repo}
}

func (uc *ListAppointmentsByUser) Execute(ctx context.Context, userID string) ([]dto.AppointmentListDTO, error) {
	if userID == "" {
		return []dto.AppointmentListDTO{}, nil
	}
	appointments, err := uc.repo.ListAppointmentsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return dto.AppointmentList(appointments), nil
}
