package notify

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
)

var ErrNotFound = errors.New("notify: notification not found")

// Store persists in-app notifications. Get, SetRead and Delete return
// ErrNotFound for unknown ids.
type Store interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	ListNotifications(ctx context.Context, userID string, read *bool) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	GetNotification(ctx context.Context, id string) (*models.Notification, error)
	SetRead(ctx context.Context, id string, read bool) error
	DeleteNotification(ctx context.Context, id string) error
}
