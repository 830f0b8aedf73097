package notify

import (
	"context"
	"time"

	"revive/internal"
	"revive/pkg/types"
)

type NotificationStore interface {
	Notification(ctx context.Context, notificationID string) (*types.Notification, error)
	NotificationsByUser(ctx context.Context, userID string, limit uint64) ([]*types.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID string, at time.Time) error
	MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error)
	Delete(ctx context.Context, notificationID string) error
	DeleteRead(ctx context.Context, userID string) (int64, error)
}

// Service is a user's notification inbox. Every operation is scoped to the
// calling principal.
type Service struct {
	repo  NotificationStore
	clock func() time.Time
}

func NewService(repo NotificationStore) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Inbox(ctx context.Context, principal types.Principal) (*types.NotificationInbox, error) {
	notifications, err := s.repo.NotificationsByUser(ctx, principal.ID, internal.NOTIFICATION_INBOX_LIMIT)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.UnreadCount(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	return &types.NotificationInbox{Notifications: notifications, UnreadCount: unread}, nil
}

func (s *Service) MarkRead(ctx context.Context, notificationID string, principal types.Principal) error {
	if _, err := s.owned(ctx, notificationID, principal); err != nil {
		return err
	}
	return s.repo.MarkRead(ctx, notificationID, s.clock())
}

func (s *Service) MarkAllRead(ctx context.Context, principal types.Principal) error {
	_, err := s.repo.MarkAllRead(ctx, principal.ID, s.clock())
	return err
}

func (s *Service) Delete(ctx context.Context, notificationID string, principal types.Principal) error {
	if _, err := s.owned(ctx, notificationID, principal); err != nil {
		return err
	}
	return s.repo.Delete(ctx, notificationID)
}

func (s *Service) ClearRead(ctx context.Context, principal types.Principal) error {
	_, err := s.repo.DeleteRead(ctx, principal.ID)
	return err
}

func (s *Service) owned(ctx context.Context, notificationID string, principal types.Principal) (*types.Notification, error) {
	notification, err := s.repo.Notification(ctx, notificationID)
	if err != nil {
		return nil, err
	}

	if notification.UserID != principal.ID {
		return nil, types.NewError(types.ErrForbidden, "Not authorized")
	}

	return notification, nil
}
