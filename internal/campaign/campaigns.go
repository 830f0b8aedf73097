package campaign

import (
	"context"
	"fmt"
	"strings"

	"revive/internal/store"
	"revive/pkg/types"
)

// GetCampaigns is the public listing. Status defaults to active.
func (m *Manager) GetCampaigns(ctx context.Context, filters types.CampaignFilters) ([]*types.CampaignView, error) {
	filters.Search = strings.TrimSpace(filters.Search)
	if filters.Status == "" {
		filters.Status = types.CampaignStatusActive
	}

	campaigns, err := m.campaigns.Campaigns(ctx, filters)
	if err != nil {
		return nil, err
	}

	return m.views(ctx, campaigns)
}

func (m *Manager) GetCampaign(ctx context.Context, campaignID string) (*types.CampaignDetail, error) {
	campaign, err := m.campaigns.Campaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	applications, err := m.applications.ApplicationsByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	details, err := m.details(ctx, []*types.Campaign{campaign}, applications)
	if err != nil {
		return nil, err
	}

	return details[0], nil
}

func (m *Manager) CreateCampaign(ctx context.Context, input types.CampaignInput, principal types.Principal) (*types.Campaign, error) {
	switch principal.Role {
	case types.RoleNGO:
	default:
		return nil, types.NewError(types.ErrForbidden, "Only NGOs can create campaigns")
	}

	campaign := newCampaign(input, principal.ID)
	if err := validateCampaign(campaign); err != nil {
		return nil, err
	}

	if err := m.campaigns.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}

	m.logger.WithField("campaign_id", campaign.ID).WithField("ngo_id", principal.ID).Info("campaign created")

	return campaign, nil
}

// UpdateCampaign applies patch under the campaign lock so it cannot race an
// approval on volunteersNeeded. Closing a campaign notifies its approved
// volunteers.
func (m *Manager) UpdateCampaign(ctx context.Context, campaignID string, patch types.CampaignPatch, principal types.Principal) (*types.Campaign, error) {
	var (
		updated  *types.Campaign
		previous types.CampaignStatus
		approved []string
	)

	err := m.campaigns.WithCampaignLock(ctx, campaignID, func(tx store.CampaignTx) error {
		current := tx.Campaign()
		if !current.OwnedBy(principal) {
			return types.NewError(types.ErrForbidden, "Not authorized to update this campaign")
		}

		next := *current
		applyPatch(&next, patch)
		if err := validateCampaign(&next); err != nil {
			return err
		}

		if next.Status != current.Status && next.Status != types.CampaignStatusActive {
			applications, err := tx.Applications(ctx)
			if err != nil {
				return err
			}
			for _, a := range applications {
				if a.Status == types.ApplicationStatusApproved {
					approved = append(approved, a.VolunteerID)
				}
			}
		}

		if err := tx.SaveCampaign(ctx, &next); err != nil {
			return err
		}

		previous = current.Status
		updated = &next
		return nil
	})
	if err != nil {
		return nil, err
	}

	if updated.Status != previous {
		for _, volunteerID := range approved {
			m.emit(ctx, statusChangeNotification(updated, volunteerID))
		}
	}

	return updated, nil
}

func (m *Manager) DeleteCampaign(ctx context.Context, campaignID string, principal types.Principal) error {
	campaign, err := m.campaigns.Campaign(ctx, campaignID)
	if err != nil {
		return err
	}

	if !campaign.OwnedBy(principal) {
		return types.NewError(types.ErrForbidden, "Not authorized to delete this campaign")
	}

	if err := m.campaigns.DeleteCampaign(ctx, campaignID); err != nil {
		return err
	}

	m.logger.WithField("campaign_id", campaignID).Info("campaign deleted")

	return nil
}

// GetMyCampaigns lists the calling NGO's campaigns with every application.
func (m *Manager) GetMyCampaigns(ctx context.Context, principal types.Principal) ([]*types.CampaignDetail, error) {
	switch principal.Role {
	case types.RoleNGO:
	default:
		return nil, types.ErrAccessDenied
	}

	campaigns, err := m.campaigns.CampaignsByNGO(ctx, principal.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ids = append(ids, c.ID)
	}

	applications, err := m.applications.ApplicationsByCampaigns(ctx, ids)
	if err != nil {
		return nil, err
	}

	return m.details(ctx, campaigns, applications)
}

func (m *Manager) details(ctx context.Context, campaigns []*types.Campaign, applications []*types.Application) ([]*types.CampaignDetail, error) {
	userIDs := make([]string, 0, len(campaigns)+len(applications))
	for _, c := range campaigns {
		userIDs = append(userIDs, c.NGOID)
	}
	for _, a := range applications {
		userIDs = append(userIDs, a.VolunteerID)
	}

	users, err := m.summaries(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	byCampaign := make(map[string][]*types.ApplicationView, len(campaigns))
	for _, a := range applications {
		byCampaign[a.CampaignID] = append(byCampaign[a.CampaignID], &types.ApplicationView{
			Application:      a,
			VolunteerProfile: users[a.VolunteerID],
		})
	}

	out := make([]*types.CampaignDetail, 0, len(campaigns))
	for _, c := range campaigns {
		volunteers := byCampaign[c.ID]
		if volunteers == nil {
			volunteers = []*types.ApplicationView{}
		}
		out = append(out, &types.CampaignDetail{
			CampaignView: types.CampaignView{Campaign: c, NGO: users[c.NGOID]},
			Volunteers:   volunteers,
		})
	}

	return out, nil
}

func newCampaign(input types.CampaignInput, ngoID string) *types.Campaign {
	campaign := &types.Campaign{
		NGOID:            ngoID,
		Title:            strings.TrimSpace(input.Title),
		Description:      strings.TrimSpace(input.Description),
		DisasterType:     input.DisasterType,
		Location:         strings.TrimSpace(input.Location),
		Urgency:          input.Urgency,
		VolunteersNeeded: input.VolunteersNeeded,
		StartDate:        input.StartDate.Time,
		EndDate:          input.EndDate.Time,
		Categories:       types.NormalizeCategories(input.Categories),
		Image:            strings.TrimSpace(input.Image),
		Status:           types.CampaignStatusActive,
	}
	if campaign.Urgency == "" {
		campaign.Urgency = types.UrgencyMedium
	}
	campaign.SetCoordinates(input.Coordinates)
	return campaign
}

func applyPatch(c *types.Campaign, patch types.CampaignPatch) {
	if patch.Title != nil {
		c.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		c.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.DisasterType != nil {
		c.DisasterType = *patch.DisasterType
	}
	if patch.Location != nil {
		c.Location = strings.TrimSpace(*patch.Location)
	}
	if patch.Coordinates != nil {
		c.SetCoordinates(patch.Coordinates)
	}
	if patch.Urgency != nil {
		c.Urgency = *patch.Urgency
	}
	if patch.VolunteersNeeded != nil {
		c.VolunteersNeeded = *patch.VolunteersNeeded
	}
	if patch.StartDate != nil {
		c.StartDate = patch.StartDate.Time
	}
	if patch.EndDate != nil {
		c.EndDate = patch.EndDate.Time
	}
	if patch.Categories != nil {
		c.Categories = types.NormalizeCategories(*patch.Categories)
	}
	if patch.Image != nil {
		c.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
}

func statusChangeNotification(c *types.Campaign, volunteerID string) types.NotificationRequest {
	kind := types.NotificationCampaignUpdate
	if c.Status == types.CampaignStatusCompleted {
		kind = types.NotificationCampaignCompleted
	}

	return types.NotificationRequest{
		TargetUserID:      volunteerID,
		Type:              kind,
		Title:             "Campaign " + string(c.Status),
		Message:           fmt.Sprintf("%s has been marked %s", c.Title, c.Status),
		RelatedCampaignID: c.ID,
		RelatedUserID:     c.NGOID,
	}
}
