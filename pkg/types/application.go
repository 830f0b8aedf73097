package types

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Terminal reports whether no further transition is defined out of s.
func (s ApplicationStatus) Terminal() bool {
	return s == ApplicationStatusApproved || s == ApplicationStatusRejected
}

type Application struct {
	ID          string            `db:"id" json:"id"`
	CampaignID  string            `db:"campaign_id" json:"campaign"`
	VolunteerID string            `db:"volunteer_id" json:"volunteer"`
	Status      ApplicationStatus `db:"status" json:"status"`
	AppliedAt   time.Time         `db:"applied_at" json:"appliedAt"`
	ApprovedAt  *time.Time        `db:"approved_at" json:"approvedAt,omitempty"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updatedAt"`
}

type ApplicationView struct {
	*Application
	VolunteerProfile *UserSummary `json:"volunteerProfile,omitempty"`
}

// MyApplication pairs a campaign with the caller's own application on it.
type MyApplication struct {
	Campaign          *CampaignView     `json:"campaign"`
	ApplicationStatus ApplicationStatus `json:"applicationStatus"`
	AppliedAt         time.Time         `json:"appliedAt"`
	ApprovedAt        *time.Time        `json:"approvedAt,omitempty"`
}

type ManageApplicationInput struct {
	Status ApplicationStatus `json:"status"`
}
