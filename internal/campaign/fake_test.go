package campaign

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"revive/internal/store"
	"revive/pkg/types"
)

type fakeStore struct {
	mu           sync.Mutex
	campaigns    map[string]*types.Campaign
	applications map[string]*types.Application
	users        map[string]*types.User
	nextID       int
	locks        int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		campaigns:    map[string]*types.Campaign{},
		applications: map[string]*types.Application{},
		users:        map[string]*types.User{},
	}
}

func (s *fakeStore) addUser(id string, role types.Role, name string) types.Principal {
	u := &types.User{ID: id, FullName: name, Email: id + "@example.org", UserType: role}
	s.users[id] = u
	return u.Principal()
}

func (s *fakeStore) addCampaign(c *types.Campaign) *types.Campaign {
	if c.Status == "" {
		c.Status = types.CampaignStatusActive
	}
	s.campaigns[c.ID] = c
	return c
}

func (s *fakeStore) campaign(id string) types.Campaign {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.campaigns[id]
}

func (s *fakeStore) approvedCount(campaignID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.applications {
		if a.CampaignID == campaignID && a.Status == types.ApplicationStatusApproved {
			n++
		}
	}
	return n
}

func (s *fakeStore) Campaign(_ context.Context, campaignID string) (*types.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.campaigns[campaignID]
	if !ok {
		return nil, types.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) Campaigns(_ context.Context, filters types.CampaignFilters) ([]*types.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*types.Campaign
	for _, c := range s.campaigns {
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.Urgency != "" && c.Urgency != filters.Urgency {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeStore) CampaignsByNGO(_ context.Context, ngoID string) ([]*types.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*types.Campaign{}
	for _, c := range s.campaigns {
		if c.NGOID == ngoID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) CampaignsByIDs(_ context.Context, campaignIDs []string) ([]*types.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*types.Campaign{}
	for _, id := range campaignIDs {
		if c, ok := s.campaigns[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeStore) CreateCampaign(_ context.Context, campaign *types.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	campaign.ID = "camp-new-" + strconv.Itoa(s.nextID)
	cp := *campaign
	s.campaigns[campaign.ID] = &cp
	return nil
}

func (s *fakeStore) DeleteCampaign(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.campaigns[campaignID]; !ok {
		return types.ErrCampaignNotFound
	}
	delete(s.campaigns, campaignID)
	for id, a := range s.applications {
		if a.CampaignID == campaignID {
			delete(s.applications, id)
		}
	}
	return nil
}

// WithCampaignLock serializes on the store mutex and only applies the staged
// writes when fn succeeds.
func (s *fakeStore) WithCampaignLock(ctx context.Context, campaignID string, fn func(tx store.CampaignTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locks++

	c, ok := s.campaigns[campaignID]
	if !ok {
		return types.ErrCampaignNotFound
	}
	cp := *c
	tx := &fakeTx{store: s, campaign: &cp, staged: map[string]*types.Application{}}

	if err := fn(tx); err != nil {
		return err
	}

	if tx.saved != nil {
		s.campaigns[campaignID] = tx.saved
	}
	for id, a := range tx.staged {
		s.applications[id] = a
	}
	return nil
}

func (s *fakeStore) ApplicationsByCampaign(_ context.Context, campaignID string) ([]*types.Application, error) {
	return s.ApplicationsByCampaigns(context.Background(), []string{campaignID})
}

func (s *fakeStore) ApplicationsByCampaigns(_ context.Context, campaignIDs []string) ([]*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	want := map[string]bool{}
	for _, id := range campaignIDs {
		want[id] = true
	}
	out := []*types.Application{}
	for _, a := range s.applications {
		if want[a.CampaignID] {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.Before(out[j].AppliedAt) })
	return out, nil
}

func (s *fakeStore) ApplicationsByVolunteer(_ context.Context, volunteerID string) ([]*types.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*types.Application{}
	for _, a := range s.applications {
		if a.VolunteerID == volunteerID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	return out, nil
}

func (s *fakeStore) UsersByIDs(_ context.Context, userIDs []string) ([]*types.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*types.User{}
	for _, id := range userIDs {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeTx struct {
	store    *fakeStore
	campaign *types.Campaign
	saved    *types.Campaign
	staged   map[string]*types.Application
}

func (t *fakeTx) Campaign() *types.Campaign {
	return t.campaign
}

func (t *fakeTx) Application(_ context.Context, volunteerID string) (*types.Application, error) {
	for _, a := range t.store.applications {
		if a.CampaignID == t.campaign.ID && a.VolunteerID == volunteerID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, types.ErrApplicationNotFound
}

func (t *fakeTx) Applications(_ context.Context) ([]*types.Application, error) {
	out := []*types.Application{}
	for _, a := range t.store.applications {
		if a.CampaignID == t.campaign.ID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (t *fakeTx) InsertApplication(_ context.Context, application *types.Application) error {
	application.ID = t.campaign.ID + "/" + application.VolunteerID
	application.CampaignID = t.campaign.ID
	if _, ok := t.store.applications[application.ID]; ok {
		return types.ErrAlreadyApplied
	}
	cp := *application
	t.staged[application.ID] = &cp
	return nil
}

func (t *fakeTx) UpdateApplication(_ context.Context, application *types.Application) error {
	cp := *application
	t.staged[application.ID] = &cp
	return nil
}

func (t *fakeTx) SaveCampaign(_ context.Context, campaign *types.Campaign) error {
	cp := *campaign
	t.saved = &cp
	t.campaign = campaign
	return nil
}

type recordingSink struct {
	mu       sync.Mutex
	requests []types.NotificationRequest
	err      error
}

func (r *recordingSink) Notify(_ context.Context, req types.NotificationRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	return r.err
}

func (r *recordingSink) all() []types.NotificationRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.NotificationRequest(nil), r.requests...)
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
