package types

import "time"

type NotificationType string

const (
	NotificationApplicationSubmitted NotificationType = "application_submitted"
	NotificationApplicationApproved  NotificationType = "application_approved"
	NotificationApplicationRejected  NotificationType = "application_rejected"
	NotificationCampaignUpdate       NotificationType = "campaign_update"
	NotificationNewMessage           NotificationType = "new_message"
	NotificationCampaignStartingSoon NotificationType = "campaign_starting_soon"
	NotificationCampaignCompleted    NotificationType = "campaign_completed"
)

type Notification struct {
	ID                string           `db:"id" json:"id"`
	UserID            string           `db:"user_id" json:"user"`
	Type              NotificationType `db:"type" json:"type"`
	Title             string           `db:"title" json:"title"`
	Message           string           `db:"message" json:"message"`
	RelatedCampaignID *string          `db:"related_campaign_id" json:"relatedCampaign,omitempty"`
	RelatedUserID     *string          `db:"related_user_id" json:"relatedUser,omitempty"`
	IsRead            bool             `db:"is_read" json:"isRead"`
	ReadAt            *time.Time       `db:"read_at" json:"readAt,omitempty"`
	CreatedAt         time.Time        `db:"created_at" json:"createdAt"`
}

// NotificationRequest is what producers hand to a notification sink.
type NotificationRequest struct {
	TargetUserID      string           `json:"targetUserId"`
	Type              NotificationType `json:"type"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	RelatedCampaignID string           `json:"relatedCampaignId,omitempty"`
	RelatedUserID     string           `json:"relatedUserId,omitempty"`
}

type NotificationInbox struct {
	Notifications []*Notification `json:"notifications"`
	UnreadCount   int             `json:"unreadCount"`
}
