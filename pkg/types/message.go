package types

import "time"

type Message struct {
	ID         string     `db:"id" json:"id"`
	SenderID   string     `db:"sender_id" json:"sender"`
	ReceiverID string     `db:"receiver_id" json:"receiver"`
	CampaignID *string    `db:"campaign_id" json:"campaign,omitempty"`
	Content    string     `db:"content" json:"content"`
	IsRead     bool       `db:"is_read" json:"isRead"`
	ReadAt     *time.Time `db:"read_at" json:"readAt,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"createdAt"`
}

type MessageInput struct {
	Receiver string `json:"receiver"`
	Campaign string `json:"campaign"`
	Content  string `json:"content"`
}

type Conversation struct {
	PartnerID   string       `json:"partnerId"`
	Partner     *UserSummary `json:"partner,omitempty"`
	LastMessage *Message     `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}
