package message

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"revive/internal/notify"
	"revive/internal/utils"
	"revive/pkg/types"

	"github.com/sirupsen/logrus"
)

type MessageStore interface {
	Create(ctx context.Context, message *types.Message) error
	Message(ctx context.Context, messageID string) (*types.Message, error)
	Conversation(ctx context.Context, userID, partnerID string) ([]*types.Message, error)
	MessagesByUser(ctx context.Context, userID string) ([]*types.Message, error)
	MarkRead(ctx context.Context, messageID string, at time.Time) error
	Delete(ctx context.Context, messageID string) error
}

type UserDirectory interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UsersByIDs(ctx context.Context, userIDs []string) ([]*types.User, error)
}

type Service struct {
	logger   logrus.FieldLogger
	messages MessageStore
	users    UserDirectory
	sink     notify.Sink
	clock    func() time.Time
}

func NewService(logger logrus.FieldLogger, messages MessageStore, users UserDirectory, sink notify.Sink) *Service {
	return &Service{
		logger:   logger,
		messages: messages,
		users:    users,
		sink:     sink,
		clock:    time.Now,
	}
}

func (s *Service) Send(ctx context.Context, input types.MessageInput, principal types.Principal) (*types.Message, error) {
	receiverID := strings.TrimSpace(input.Receiver)
	content := strings.TrimSpace(input.Content)

	errs := map[string]string{}
	if receiverID == "" {
		errs["receiver"] = "Receiver is required"
	}
	if content == "" {
		errs["content"] = "Content is required"
	}
	if len(errs) > 0 {
		return nil, types.NewValidationError(errs)
	}

	if _, err := s.users.User(ctx, receiverID); err != nil {
		return nil, err
	}

	message := &types.Message{
		SenderID:   principal.ID,
		ReceiverID: receiverID,
		CampaignID: utils.TrimmedStringPtr(input.Campaign),
		Content:    content,
		CreatedAt:  s.clock(),
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}

	req := types.NotificationRequest{
		TargetUserID:  receiverID,
		Type:          types.NotificationNewMessage,
		Title:         "New Message",
		Message:       fmt.Sprintf("You have a new message from %s", principal.DisplayName),
		RelatedUserID: principal.ID,
	}
	if message.CampaignID != nil {
		req.RelatedCampaignID = *message.CampaignID
	}
	notify.Emit(ctx, s.logger, s.sink, req)

	return message, nil
}

// Conversation returns every message between the caller and partnerID,
// oldest first.
func (s *Service) Conversation(ctx context.Context, partnerID string, principal types.Principal) ([]*types.Message, error) {
	return s.messages.Conversation(ctx, principal.ID, partnerID)
}

// Conversations groups the caller's messages by counterpart, most recently
// active first.
func (s *Service) Conversations(ctx context.Context, principal types.Principal) ([]*types.Conversation, error) {
	messages, err := s.messages.MessagesByUser(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	byPartner := make(map[string]*types.Conversation)
	partners := make([]string, 0)
	for _, m := range messages {
		partnerID := m.SenderID
		if partnerID == principal.ID {
			partnerID = m.ReceiverID
		}

		c, ok := byPartner[partnerID]
		if !ok {
			c = &types.Conversation{PartnerID: partnerID, LastMessage: m}
			byPartner[partnerID] = c
			partners = append(partners, partnerID)
		}
		if m.CreatedAt.After(c.LastMessage.CreatedAt) {
			c.LastMessage = m
		}
		if m.ReceiverID == principal.ID && !m.IsRead {
			c.UnreadCount++
		}
	}

	out := make([]*types.Conversation, 0, len(partners))
	if len(partners) == 0 {
		return out, nil
	}

	users, err := s.users.UsersByIDs(ctx, partners)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if c, ok := byPartner[u.ID]; ok {
			c.Partner = u.Summary()
		}
	}

	for _, id := range partners {
		out = append(out, byPartner[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastMessage.CreatedAt.After(out[j].LastMessage.CreatedAt)
	})

	return out, nil
}

func (s *Service) MarkRead(ctx context.Context, messageID string, principal types.Principal) error {
	message, err := s.messages.Message(ctx, messageID)
	if err != nil {
		return err
	}

	if message.ReceiverID != principal.ID {
		return types.NewError(types.ErrForbidden, "Not authorized")
	}

	if message.IsRead {
		return nil
	}

	return s.messages.MarkRead(ctx, messageID, s.clock())
}

func (s *Service) Delete(ctx context.Context, messageID string, principal types.Principal) error {
	message, err := s.messages.Message(ctx, messageID)
	if err != nil {
		return err
	}

	if message.SenderID != principal.ID {
		return types.NewError(types.ErrForbidden, "Not authorized to delete this message")
	}

	return s.messages.Delete(ctx, messageID)
}
