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

const messageTableName = "revive.messages"

var messageColumns = utils.StructTagValues(types.Message{})

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func (r *MessageRepository) Create(ctx context.Context, message *types.Message) error {
	message.ID = utils.NanoID()
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}

	query, args, err := psql().Insert(messageTableName).SetMap(utils.StructToMap(message)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return types.NewError(types.ErrValidation, "Receiver or campaign does not exist")
		}
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *MessageRepository) Message(ctx context.Context, messageID string) (*types.Message, error) {
	query, args, err := psql().Select(messageColumns...).From(messageTableName).
		Where(sq.Eq{"id": messageID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate message query: %w", err)
	}

	var message = new(types.Message)
	err = pgxscan.Get(ctx, r.pool, message, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	return message, nil
}

// Conversation returns the messages exchanged between two users, oldest first.
func (r *MessageRepository) Conversation(ctx context.Context, userID, partnerID string) ([]*types.Message, error) {
	query, args, err := psql().Select(messageColumns...).From(messageTableName).
		Where(sq.Or{
			sq.Eq{"sender_id": userID, "receiver_id": partnerID},
			sq.Eq{"sender_id": partnerID, "receiver_id": userID},
		}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate conversation query: %w", err)
	}

	return r.selectMessages(ctx, query, args)
}

// MessagesByUser returns every message the user sent or received, newest first.
func (r *MessageRepository) MessagesByUser(ctx context.Context, userID string) ([]*types.Message, error) {
	query, args, err := psql().Select(messageColumns...).From(messageTableName).
		Where(sq.Or{
			sq.Eq{"sender_id": userID},
			sq.Eq{"receiver_id": userID},
		}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user messages query: %w", err)
	}

	return r.selectMessages(ctx, query, args)
}

func (r *MessageRepository) selectMessages(ctx context.Context, query string, args []any) ([]*types.Message, error) {
	var messages = make([]*types.Message, 0)
	err := pgxscan.Select(ctx, r.pool, &messages, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

func (r *MessageRepository) MarkRead(ctx context.Context, messageID string, at time.Time) error {
	query, args, err := psql().Update(messageTableName).
		Set("is_read", true).
		Set("read_at", at).
		Where(sq.Eq{"id": messageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate mark message read query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to mark message read")
}

func (r *MessageRepository) Delete(ctx context.Context, messageID string) error {
	query, args, err := psql().Delete(messageTableName).Where(sq.Eq{"id": messageID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete message query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to delete message")
}
