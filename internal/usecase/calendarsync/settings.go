// Package calendarsync manages which admin account owns the calendar mirror.
package calendarsync

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/audit"
	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

type UserStore interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
}

// OwnerCache is notified whenever the owning account may have changed.
type OwnerCache interface {
	Invalidate()
}

type Settings struct {
	Enabled    bool   `json:"enabled"`
	CalendarID string `json:"calendar_id"`
	Connected  bool   `json:"connected"`
}

type UpdateInput struct {
	ActorID    string
	Email      string
	Name       string
	Enabled    bool
	CalendarID string
	// RefreshToken replaces the stored credential when non-nil. An empty
	// string disconnects the account.
	RefreshToken *string
}

type Service struct {
	users UserStore
	cache OwnerCache
	audit *audit.Dispatcher
}

func NewService(users UserStore, cache OwnerCache, audit *audit.Dispatcher) *Service {
	return &Service{users: users, cache: cache, audit: audit}
}

func (s *Service) Get(ctx context.Context, userID string) (*Settings, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return &Settings{}, nil
	}
	return settingsOf(u), nil
}

// Update stores the admin's mirror settings, creating the local account
// record on first use.
func (s *Service) Update(ctx context.Context, in UpdateInput) (*Settings, error) {
	if strings.TrimSpace(in.ActorID) == "" {
		return nil, httperr.ErrBusiness("forbidden")
	}

	u, err := s.users.GetUser(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u = &models.User{ID: in.ActorID}
	}
	u.Role = models.RoleAdmin
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Name != "" {
		u.Name = in.Name
	}

	u.CalendarSyncEnabled = in.Enabled
	u.CalendarID = strings.TrimSpace(in.CalendarID)
	if in.RefreshToken != nil {
		u.CalendarRefreshToken = strings.TrimSpace(*in.RefreshToken)
	}

	if err := s.users.SaveUser(ctx, u); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate()
	}

	s.audit.Dispatch(audit.Event{
		ActorID:  in.ActorID,
		Action:   "calendar_sync_updated",
		Entity:   "user",
		EntityID: u.ID,
		Metadata: map[string]any{
			"enabled":     u.CalendarSyncEnabled,
			"calendar_id": u.CalendarID,
			"connected":   u.CalendarRefreshToken != "",
		},
	})

	return settingsOf(u), nil
}

func settingsOf(u *models.User) *Settings {
	return &Settings{
		Enabled:    u.CalendarSyncEnabled,
		CalendarID: u.CalendarID,
		Connected:  u.CalendarRefreshToken != "",
	}
}
