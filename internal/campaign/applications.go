package campaign

import (
	"context"
	"errors"
	"fmt"

	"revive/internal/store"
	"revive/pkg/types"
)

// ApplyToCampaign records a pending application for the volunteer. The
// duplicate and capacity checks run against the locked campaign row; an
// unknown campaign and a non-volunteer caller are refused without the lock.
func (m *Manager) ApplyToCampaign(ctx context.Context, campaignID string, principal types.Principal) (*types.Application, error) {
	if _, err := m.campaigns.Campaign(ctx, campaignID); err != nil {
		return nil, err
	}

	if principal.Role != types.RoleVolunteer {
		return nil, types.NewError(types.ErrForbidden, "Only volunteers can apply to campaigns")
	}

	var (
		application *types.Application
		campaign    *types.Campaign
	)

	err := m.campaigns.WithCampaignLock(ctx, campaignID, func(tx store.CampaignTx) error {
		campaign = tx.Campaign()

		_, err := tx.Application(ctx, principal.ID)
		switch {
		case err == nil:
			return types.ErrAlreadyApplied
		case !errors.Is(err, types.ErrApplicationNotFound):
			return err
		}

		if campaign.Status != types.CampaignStatusActive {
			return types.ErrCampaignClosed
		}

		if campaign.IsFull() {
			return types.ErrCampaignFull
		}

		application = &types.Application{
			VolunteerID: principal.ID,
			Status:      types.ApplicationStatusPending,
			AppliedAt:   m.clock(),
		}

		return tx.InsertApplication(ctx, application)
	})
	if err != nil {
		return nil, err
	}

	m.logger.WithField("campaign_id", campaignID).WithField("volunteer_id", principal.ID).Info("application submitted")

	m.emit(ctx, types.NotificationRequest{
		TargetUserID:      campaign.NGOID,
		Type:              types.NotificationApplicationSubmitted,
		Title:             "New Volunteer Application",
		Message:           fmt.Sprintf("%s has applied to %s", principal.DisplayName, campaign.Title),
		RelatedCampaignID: campaign.ID,
		RelatedUserID:     principal.ID,
	})

	return application, nil
}

// ManageApplication moves a pending application to approved or rejected.
// Repeating the current status is a no-op; leaving a terminal status is a
// conflict. Approval is refused once the campaign is full.
func (m *Manager) ManageApplication(ctx context.Context, campaignID, volunteerID string, status types.ApplicationStatus, principal types.Principal) (*types.Application, error) {
	if !status.Terminal() {
		return nil, types.NewValidationError(map[string]string{
			"status": "Status must be approved or rejected",
		})
	}

	var (
		application *types.Application
		campaign    *types.Campaign
		changed     bool
	)

	err := m.campaigns.WithCampaignLock(ctx, campaignID, func(tx store.CampaignTx) error {
		campaign = tx.Campaign()
		if !campaign.OwnedBy(principal) {
			return types.NewError(types.ErrForbidden, "Not authorized to manage applications for this campaign")
		}

		var err error
		application, err = tx.Application(ctx, volunteerID)
		if err != nil {
			return err
		}

		if application.Status == status {
			return nil
		}

		if application.Status.Terminal() {
			return types.NewErrorf(types.ErrConflict, "Application has already been %s", application.Status)
		}

		if status == types.ApplicationStatusApproved && campaign.IsFull() {
			return types.ErrCampaignFull
		}

		application.Status = status
		if status == types.ApplicationStatusApproved {
			now := m.clock()
			application.ApprovedAt = &now

			next := *campaign
			next.VolunteersJoined++
			if err := tx.SaveCampaign(ctx, &next); err != nil {
				return err
			}
			campaign = &next
		}

		if err := tx.UpdateApplication(ctx, application); err != nil {
			return err
		}

		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return application, nil
	}

	m.logger.WithField("campaign_id", campaignID).
		WithField("volunteer_id", volunteerID).
		WithField("status", status).
		Info("application updated")

	kind, title := types.NotificationApplicationRejected, "Application Rejected"
	if status == types.ApplicationStatusApproved {
		kind, title = types.NotificationApplicationApproved, "Application Approved"
	}

	m.emit(ctx, types.NotificationRequest{
		TargetUserID:      volunteerID,
		Type:              kind,
		Title:             title,
		Message:           fmt.Sprintf("Your application to %s has been %s", campaign.Title, status),
		RelatedCampaignID: campaign.ID,
		RelatedUserID:     campaign.NGOID,
	})

	return application, nil
}

// GetMyApplications pairs each campaign the volunteer applied to with the
// volunteer's own application, most recent first.
func (m *Manager) GetMyApplications(ctx context.Context, principal types.Principal) ([]*types.MyApplication, error) {
	switch principal.Role {
	case types.RoleVolunteer:
	default:
		return nil, types.ErrAccessDenied
	}

	applications, err := m.applications.ApplicationsByVolunteer(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	out := make([]*types.MyApplication, 0, len(applications))
	if len(applications) == 0 {
		return out, nil
	}

	ids := make([]string, 0, len(applications))
	for _, a := range applications {
		ids = append(ids, a.CampaignID)
	}

	campaigns, err := m.campaigns.CampaignsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views, err := m.views(ctx, campaigns)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*types.CampaignView, len(views))
	for _, v := range views {
		byID[v.ID] = v
	}

	for _, a := range applications {
		view, ok := byID[a.CampaignID]
		if !ok {
			continue
		}
		out = append(out, &types.MyApplication{
			Campaign:          view,
			ApplicationStatus: a.Status,
			AppliedAt:         a.AppliedAt,
			ApprovedAt:        a.ApprovedAt,
		})
	}

	return out, nil
}
