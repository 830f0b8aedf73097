package store

import (
	"context"
	"fmt"
	"time"

	"revive/internal/utils"
	"revive/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationTableName = "revive.notifications"

var notificationColumns = utils.StructTagValues(types.Notification{})

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *types.Notification) error {
	notification.ID = utils.NanoID()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}

	query, args, err := psql().Insert(notificationTableName).SetMap(utils.StructToMap(notification)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert notification query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create notification")
}

func (r *NotificationRepository) Notification(ctx context.Context, notificationID string) (*types.Notification, error) {
	query, args, err := psql().Select(notificationColumns...).From(notificationTableName).
		Where(sq.Eq{"id": notificationID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notification query: %w", err)
	}

	var notification = new(types.Notification)
	err = pgxscan.Get(ctx, r.pool, notification, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to fetch notification: %w", err)
	}

	return notification, nil
}

func (r *NotificationRepository) NotificationsByUser(ctx context.Context, userID string, limit uint64) ([]*types.Notification, error) {
	query, args, err := psql().Select(notificationColumns...).From(notificationTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(limit).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate notifications query: %w", err)
	}

	var notifications = make([]*types.Notification, 0)
	err = pgxscan.Select(ctx, r.pool, &notifications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int, error) {
	query, args, err := psql().Select("count(*)").From(notificationTableName).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate unread count query: %w", err)
	}

	var count int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID string, at time.Time) error {
	query, args, err := psql().Update(notificationTableName).
		Set("is_read", true).
		Set("read_at", at).
		Where(sq.Eq{"id": notificationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark read query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to mark notification read")
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, at time.Time) (int64, error) {
	query, args, err := psql().Update(notificationTableName).
		Set("is_read", true).
		Set("read_at", at).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate mark all read query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, notificationID string) error {
	query, args, err := psql().Delete(notificationTableName).Where(sq.Eq{"id": notificationID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete notification query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete notification")
}

func (r *NotificationRepository) DeleteRead(ctx context.Context, userID string) (int64, error) {
	query, args, err := psql().Delete(notificationTableName).
		Where(sq.Eq{"user_id": userID, "is_read": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to generate clear read query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear read notifications: %w", err)
	}

	return tag.RowsAffected(), nil
}
