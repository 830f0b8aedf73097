package seed

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"revive/pkg/types"
)

type countingUsers struct {
	users   map[string]*types.User
	created int
	updated int
}

func (c *countingUsers) User(_ context.Context, userID string) (*types.User, error) {
	u, ok := c.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (c *countingUsers) Create(_ context.Context, user *types.User) error {
	c.created++
	c.users[user.ID] = user
	return nil
}

func (c *countingUsers) Update(_ context.Context, userID string, user *types.User) error {
	c.updated++
	c.users[userID] = user
	return nil
}

func TestSeedFakeUsersUpserts(t *testing.T) {
	repo := &countingUsers{users: map[string]*types.User{}}

	if err := SeedFakeUsers(context.Background(), repo); err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if repo.created != len(fakeUsers) || repo.updated != 0 {
		t.Fatalf("expected %d creates, got %d creates %d updates", len(fakeUsers), repo.created, repo.updated)
	}

	if err := SeedFakeUsers(context.Background(), repo); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if repo.updated != len(fakeUsers) {
		t.Fatalf("expected %d updates, got %d", len(fakeUsers), repo.updated)
	}

	for _, u := range repo.users {
		if u.UserType == types.RoleVolunteer && u.OrganizationName != nil {
			t.Fatalf("expected volunteer %s to have no organization", u.ID)
		}
	}
}

type recordingWriter struct {
	inputs  []types.CampaignInput
	applies map[string]int
	needed  map[string]int
	joined  map[string]int
}

func (r *recordingWriter) CreateCampaign(_ context.Context, input types.CampaignInput, p types.Principal) (*types.Campaign, error) {
	if p.Role != types.RoleNGO {
		return nil, types.ErrAccessDenied
	}
	r.inputs = append(r.inputs, input)
	id := "c" + string(rune('a'+len(r.inputs)))
	r.needed[id] = input.VolunteersNeeded
	return &types.Campaign{ID: id}, nil
}

func (r *recordingWriter) ApplyToCampaign(_ context.Context, campaignID string, p types.Principal) (*types.Application, error) {
	if p.Role != types.RoleVolunteer {
		return nil, types.ErrAccessDenied
	}
	if r.joined[campaignID] >= r.needed[campaignID] {
		return nil, types.ErrCampaignFull
	}
	r.applies[campaignID]++
	return &types.Application{}, nil
}

func (r *recordingWriter) ManageApplication(_ context.Context, campaignID, _ string, status types.ApplicationStatus, _ types.Principal) (*types.Application, error) {
	if status == types.ApplicationStatusApproved {
		if r.joined[campaignID] >= r.needed[campaignID] {
			return nil, types.ErrCampaignFull
		}
		r.joined[campaignID]++
	}
	return &types.Application{Status: status}, nil
}

func TestSeedFakeCampaigns(t *testing.T) {
	w := &recordingWriter{applies: map[string]int{}, needed: map[string]int{}, joined: map[string]int{}}

	if err := SeedFakeCampaigns(context.Background(), nil, w, rand.New(rand.NewSource(7)), 12, false); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(w.inputs) != 12 {
		t.Fatalf("expected 12 campaigns, got %d", len(w.inputs))
	}

	for _, in := range w.inputs {
		if !strings.HasPrefix(in.Title, seedTitlePrefix) {
			t.Fatalf("expected seed prefix on %q", in.Title)
		}
		if !in.DisasterType.Valid() || !in.Urgency.Valid() {
			t.Fatalf("invalid enums in %+v", in)
		}
		if in.VolunteersNeeded < 1 || !in.EndDate.After(in.StartDate.Time) {
			t.Fatalf("invalid capacity or dates in %+v", in)
		}
	}
	for id, joined := range w.joined {
		if joined > w.needed[id] {
			t.Fatalf("campaign %s overshot: %d > %d", id, joined, w.needed[id])
		}
	}
}

func TestSeedFakeCampaignsSkipsNonPositiveCount(t *testing.T) {
	w := &recordingWriter{}
	if err := SeedFakeCampaigns(context.Background(), nil, w, rand.New(rand.NewSource(1)), 0, true); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}
	if len(w.inputs) != 0 {
		t.Fatalf("expected nothing created")
	}
}

func TestPickWeightedUrgency(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := map[types.Urgency]int{}
	for i := 0; i < 2000; i++ {
		seen[pickWeightedUrgency(rng)]++
	}
	for _, item := range weightedUrgencies {
		if seen[item.Urgency] == 0 {
			t.Fatalf("expected %s to be picked at least once", item.Urgency)
		}
	}
	if seen[types.UrgencyMedium] <= seen[types.UrgencyCritical] {
		t.Fatalf("expected medium to outweigh critical, got %v", seen)
	}
}
