package notify

import (
	"context"
	"errors"
	"time"

	"revive/internal/utils"
	"revive/pkg/types"

	"github.com/sirupsen/logrus"
)

// Sink accepts notification requests. Producers must treat a returned error
// as informational; see Emit.
type Sink interface {
	Notify(ctx context.Context, req types.NotificationRequest) error
}

type NotificationCreator interface {
	Create(ctx context.Context, notification *types.Notification) error
}

// StoreSink persists requests as inbox notifications.
type StoreSink struct {
	repo  NotificationCreator
	clock func() time.Time
}

func NewStoreSink(repo NotificationCreator) *StoreSink {
	return &StoreSink{repo: repo, clock: time.Now}
}

func (s *StoreSink) Notify(ctx context.Context, req types.NotificationRequest) error {
	notification := &types.Notification{
		UserID:            req.TargetUserID,
		Type:              req.Type,
		Title:             req.Title,
		Message:           req.Message,
		RelatedCampaignID: utils.TrimmedStringPtr(req.RelatedCampaignID),
		RelatedUserID:     utils.TrimmedStringPtr(req.RelatedUserID),
		CreatedAt:         s.clock(),
	}

	return s.repo.Create(ctx, notification)
}

// Chain delivers to every sink in order, continuing past failures.
type Chain []Sink

func (c Chain) Notify(ctx context.Context, req types.NotificationRequest) error {
	var errs []error
	for _, sink := range c {
		if err := sink.Notify(ctx, req); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Emit hands req to sink after the triggering change has committed. Errors
// are logged and dropped, and cancellation of ctx does not abort delivery.
func Emit(ctx context.Context, logger logrus.FieldLogger, sink Sink, req types.NotificationRequest) {
	if sink == nil {
		return
	}

	err := sink.Notify(context.WithoutCancel(ctx), req)
	if err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"user_id":     req.TargetUserID,
			"type":        req.Type,
			"campaign_id": req.RelatedCampaignID,
		}).Error("failed to emit notification")
	}
}
