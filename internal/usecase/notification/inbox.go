package notification

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
	"github.com/BruksfildServices01/detailing-scheduler/internal/models"
	"github.com/BruksfildServices01/detailing-scheduler/internal/notify"
)

// Inbox is the owner-facing view of in-app notifications. Every operation
// on a single notification checks that it belongs to userID; foreign ids
// look exactly like missing ones.
type Inbox struct {
	store notify.Store
}

func NewInbox(store notify.Store) *Inbox {
	return &Inbox{store: store}
}

func (uc *Inbox) List(ctx context.Context, userID string, read *bool) ([]models.Notification, error) {
	return uc.store.ListNotifications(ctx, userID, read)
}

func (uc *Inbox) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return uc.store.CountUnread(ctx, userID)
}

func (uc *Inbox) MarkRead(ctx context.Context, userID, id string) error {
	if err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return mapNotFound(uc.store.SetRead(ctx, id, true))
}

func (uc *Inbox) MarkUnread(ctx context.Context, userID, id string) error {
	if err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return mapNotFound(uc.store.SetRead(ctx, id, false))
}

func (uc *Inbox) Delete(ctx context.Context, userID, id string) error {
	if err := uc.owned(ctx, userID, id); err != nil {
		return err
	}
	return mapNotFound(uc.store.DeleteNotification(ctx, id))
}

func (uc *Inbox) owned(ctx context.Context, userID, id string) error {
	n, err := uc.store.GetNotification(ctx, id)
	if err != nil {
		return mapNotFound(err)
	}
	if n.UserID != userID {
		return httperr.ErrBusiness("notification_not_found")
	}
	return nil
}

func mapNotFound(err error) error {
	if errors.Is(err, notify.ErrNotFound) {
		return httperr.ErrBusiness("notification_not_found")
	}
	return err
}
