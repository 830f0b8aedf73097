// Package campaign owns campaign capacity and the volunteer application
// lifecycle. Every capacity or uniqueness decision runs under the store's
// per-campaign lock; notifications are emitted only after that lock's
// transaction has committed.
package campaign

import (
	"context"
	"time"

	"revive/internal/notify"
	"revive/internal/store"
	"revive/pkg/types"

	"github.com/sirupsen/logrus"
)

type CampaignStore interface {
	Campaign(ctx context.Context, campaignID string) (*types.Campaign, error)
	Campaigns(ctx context.Context, filters types.CampaignFilters) ([]*types.Campaign, error)
	CampaignsByNGO(ctx context.Context, ngoID string) ([]*types.Campaign, error)
	CampaignsByIDs(ctx context.Context, campaignIDs []string) ([]*types.Campaign, error)
	CreateCampaign(ctx context.Context, campaign *types.Campaign) error
	DeleteCampaign(ctx context.Context, campaignID string) error
	WithCampaignLock(ctx context.Context, campaignID string, fn func(tx store.CampaignTx) error) error
}

type ApplicationStore interface {
	ApplicationsByCampaign(ctx context.Context, campaignID string) ([]*types.Application, error)
	ApplicationsByCampaigns(ctx context.Context, campaignIDs []string) ([]*types.Application, error)
	ApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Application, error)
}

type UserDirectory interface {
	UsersByIDs(ctx context.Context, userIDs []string) ([]*types.User, error)
}

type Manager struct {
	logger       logrus.FieldLogger
	campaigns    CampaignStore
	applications ApplicationStore
	users        UserDirectory
	sink         notify.Sink
	clock        func() time.Time
}

func NewManager(
	logger logrus.FieldLogger,
	campaigns CampaignStore,
	applications ApplicationStore,
	users UserDirectory,
	sink notify.Sink,
) *Manager {
	return &Manager{
		logger:       logger,
		campaigns:    campaigns,
		applications: applications,
		users:        users,
		sink:         sink,
		clock:        time.Now,
	}
}

func (m *Manager) emit(ctx context.Context, req types.NotificationRequest) {
	notify.Emit(ctx, m.logger, m.sink, req)
}

// summaries resolves user ids to summaries. Unknown ids are simply absent.
func (m *Manager) summaries(ctx context.Context, userIDs []string) (map[string]*types.UserSummary, error) {
	unique := make([]string, 0, len(userIDs))
	seen := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, id)
	}

	out := make(map[string]*types.UserSummary, len(unique))
	if len(unique) == 0 {
		return out, nil
	}

	users, err := m.users.UsersByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	for _, u := range users {
		out[u.ID] = u.Summary()
	}

	return out, nil
}

func (m *Manager) views(ctx context.Context, campaigns []*types.Campaign) ([]*types.CampaignView, error) {
	ngoIDs := make([]string, 0, len(campaigns))
	for _, c := range campaigns {
		ngoIDs = append(ngoIDs, c.NGOID)
	}

	ngos, err := m.summaries(ctx, ngoIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*types.CampaignView, 0, len(campaigns))
	for _, c := range campaigns {
		views = append(views, &types.CampaignView{Campaign: c, NGO: ngos[c.NGOID]})
	}

	return views, nil
}
