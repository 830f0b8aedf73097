package campaign

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"revive/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type fixture struct {
	store     *fakeStore
	sink      *recordingSink
	manager   *Manager
	ngo       types.Principal
	otherNGO  types.Principal
	volunteer types.Principal
	second    types.Principal
	campaign  *types.Campaign
}

func newFixture(t *testing.T, needed int) *fixture {
	t.Helper()

	s := newFakeStore()
	sink := &recordingSink{}
	logger, _ := test.NewNullLogger()

	m := NewManager(logger, s, s, s, sink)
	m.clock = func() time.Time { return fixedNow }

	f := &fixture{
		store:     s,
		sink:      sink,
		manager:   m,
		ngo:       s.addUser("ngo-1", types.RoleNGO, "Relief Org"),
		otherNGO:  s.addUser("ngo-2", types.RoleNGO, "Other Org"),
		volunteer: s.addUser("vol-1", types.RoleVolunteer, "Vera Volunteer"),
		second:    s.addUser("vol-2", types.RoleVolunteer, "Walt Volunteer"),
	}
	f.campaign = s.addCampaign(&types.Campaign{
		ID:               "camp-1",
		NGOID:            "ngo-1",
		Title:            "River Flood Response",
		Description:      "Sandbagging and shelter support along the river",
		DisasterType:     types.DisasterTypeFlood,
		Location:         "Riverside",
		Urgency:          types.UrgencyHigh,
		VolunteersNeeded: needed,
		StartDate:        fixedNow,
		EndDate:          fixedNow.Add(72 * time.Hour),
		CreatedAt:        fixedNow,
	})

	return f
}

func TestApplyToCampaignCreatesPendingApplication(t *testing.T) {
	f := newFixture(t, 2)

	app, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.volunteer)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.Status != types.ApplicationStatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if !app.AppliedAt.Equal(fixedNow) {
		t.Fatalf("expected appliedAt %v, got %v", fixedNow, app.AppliedAt)
	}
	if app.ApprovedAt != nil {
		t.Fatalf("expected no approvedAt, got %v", app.ApprovedAt)
	}
	if got := f.store.campaign("camp-1").VolunteersJoined; got != 0 {
		t.Fatalf("expected volunteersJoined 0, got %d", got)
	}

	reqs := f.sink.all()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(reqs))
	}
	want := types.NotificationRequest{
		TargetUserID:      "ngo-1",
		Type:              types.NotificationApplicationSubmitted,
		Title:             "New Volunteer Application",
		Message:           "Vera Volunteer has applied to River Flood Response",
		RelatedCampaignID: "camp-1",
		RelatedUserID:     "vol-1",
	}
	if reqs[0] != want {
		t.Fatalf("expected %+v, got %+v", want, reqs[0])
	}
}

func TestApplyToCampaignRejections(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(f *fixture)
		campaign  string
		principal func(f *fixture) types.Principal
		kind      error
		want      error
	}{
		{
			name:      "missing campaign",
			campaign:  "nope",
			principal: func(f *fixture) types.Principal { return f.volunteer },
			kind:      types.ErrNotFound,
			want:      types.ErrCampaignNotFound,
		},
		{
			name:      "ngo principal",
			campaign:  "camp-1",
			principal: func(f *fixture) types.Principal { return f.ngo },
			kind:      types.ErrForbidden,
		},
		{
			name: "already applied",
			setup: func(f *fixture) {
				if _, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.volunteer); err != nil {
					panic(err)
				}
			},
			campaign:  "camp-1",
			principal: func(f *fixture) types.Principal { return f.volunteer },
			kind:      types.ErrConflict,
			want:      types.ErrAlreadyApplied,
		},
		{
			name:      "full",
			setup:     func(f *fixture) { f.campaign.VolunteersJoined = 1 },
			campaign:  "camp-1",
			principal: func(f *fixture) types.Principal { return f.volunteer },
			kind:      types.ErrConflict,
			want:      types.ErrCampaignFull,
		},
		{
			name:      "closed",
			setup:     func(f *fixture) { f.campaign.Status = types.CampaignStatusCompleted },
			campaign:  "camp-1",
			principal: func(f *fixture) types.Principal { return f.volunteer },
			kind:      types.ErrConflict,
			want:      types.ErrCampaignClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 1)
			if tt.setup != nil {
				tt.setup(f)
			}
			before := len(f.sink.all())

			_, err := f.manager.ApplyToCampaign(context.Background(), tt.campaign, tt.principal(f))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got := len(f.sink.all()); got != before {
				t.Fatalf("expected no notification on failure, got %d new", got-before)
			}
		})
	}
}

func TestApplyRefusesWithoutLocking(t *testing.T) {
	f := newFixture(t, 1)

	_, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.ngo)
	if !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	_, err = f.manager.ApplyToCampaign(context.Background(), "nope", f.ngo)
	if !errors.Is(err, types.ErrCampaignNotFound) {
		t.Fatalf("expected campaign not found before role check, got %v", err)
	}

	if f.store.locks != 0 {
		t.Fatalf("expected no campaign lock, got %d", f.store.locks)
	}

	if _, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.volunteer); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if f.store.locks != 1 {
		t.Fatalf("expected one campaign lock, got %d", f.store.locks)
	}
}

func TestFullCampaignScenario(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.volunteer); err != nil {
		t.Fatalf("apply: %v", err)
	}

	app, err := f.manager.ManageApplication(ctx, "camp-1", "vol-1", types.ApplicationStatusApproved, f.ngo)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if app.Status != types.ApplicationStatusApproved {
		t.Fatalf("expected approved, got %s", app.Status)
	}
	if app.ApprovedAt == nil || !app.ApprovedAt.Equal(fixedNow) {
		t.Fatalf("expected approvedAt %v, got %v", fixedNow, app.ApprovedAt)
	}
	if got := f.store.campaign("camp-1").VolunteersJoined; got != 1 {
		t.Fatalf("expected volunteersJoined 1, got %d", got)
	}

	_, err = f.manager.ApplyToCampaign(ctx, "camp-1", f.second)
	if !errors.Is(err, types.ErrCampaignFull) {
		t.Fatalf("expected campaign full, got %v", err)
	}

	reqs := f.sink.all()
	if len(reqs) != 2 {
		t.Fatalf("expected 2 notifications, got %d", len(reqs))
	}
	approved := reqs[1]
	if approved.TargetUserID != "vol-1" || approved.Type != types.NotificationApplicationApproved {
		t.Fatalf("unexpected approval notification %+v", approved)
	}
	if approved.Title != "Application Approved" {
		t.Fatalf("expected title Application Approved, got %q", approved.Title)
	}
	if approved.Message != "Your application to River Flood Response has been approved" {
		t.Fatalf("unexpected message %q", approved.Message)
	}
}

func TestManageApplicationReject(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.volunteer); err != nil {
		t.Fatalf("apply: %v", err)
	}

	app, err := f.manager.ManageApplication(ctx, "camp-1", "vol-1", types.ApplicationStatusRejected, f.ngo)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if app.Status != types.ApplicationStatusRejected || app.ApprovedAt != nil {
		t.Fatalf("expected rejected without approvedAt, got %+v", app)
	}
	if got := f.store.campaign("camp-1").VolunteersJoined; got != 0 {
		t.Fatalf("expected volunteersJoined 0, got %d", got)
	}

	last := f.sink.all()[1]
	if last.Type != types.NotificationApplicationRejected || last.Title != "Application Rejected" {
		t.Fatalf("unexpected rejection notification %+v", last)
	}
}

func TestManageApplicationIsIdempotent(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()

	if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.volunteer); err != nil {
		t.Fatalf("apply: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := f.manager.ManageApplication(ctx, "camp-1", "vol-1", types.ApplicationStatusApproved, f.ngo); err != nil {
			t.Fatalf("approve #%d: %v", i, err)
		}
	}

	if got := f.store.campaign("camp-1").VolunteersJoined; got != 1 {
		t.Fatalf("expected volunteersJoined 1, got %d", got)
	}
	if got := len(f.sink.all()); got != 2 {
		t.Fatalf("expected 2 notifications, got %d", got)
	}
}

func TestManageApplicationRejections(t *testing.T) {
	tests := []struct {
		name      string
		volunteer string
		status    types.ApplicationStatus
		principal func(f *fixture) types.Principal
		prepare   func(t *testing.T, f *fixture)
		kind      error
	}{
		{
			name:      "pending is not a target",
			volunteer: "vol-1",
			status:    types.ApplicationStatusPending,
			principal: func(f *fixture) types.Principal { return f.ngo },
			kind:      types.ErrValidation,
		},
		{
			name:      "other ngo",
			volunteer: "vol-1",
			status:    types.ApplicationStatusApproved,
			principal: func(f *fixture) types.Principal { return f.otherNGO },
			kind:      types.ErrForbidden,
		},
		{
			name:      "volunteer caller",
			volunteer: "vol-1",
			status:    types.ApplicationStatusApproved,
			principal: func(f *fixture) types.Principal { return f.volunteer },
			kind:      types.ErrForbidden,
		},
		{
			name:      "no application",
			volunteer: "vol-2",
			status:    types.ApplicationStatusApproved,
			principal: func(f *fixture) types.Principal { return f.ngo },
			kind:      types.ErrNotFound,
		},
		{
			name:      "leaving a terminal status",
			volunteer: "vol-1",
			status:    types.ApplicationStatusRejected,
			principal: func(f *fixture) types.Principal { return f.ngo },
			prepare: func(t *testing.T, f *fixture) {
				if _, err := f.manager.ManageApplication(context.Background(), "camp-1", "vol-1", types.ApplicationStatusApproved, f.ngo); err != nil {
					t.Fatalf("approve: %v", err)
				}
			},
			kind: types.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 2)
			if _, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.volunteer); err != nil {
				t.Fatalf("apply: %v", err)
			}
			if tt.prepare != nil {
				tt.prepare(t, f)
			}
			joined := f.store.campaign("camp-1").VolunteersJoined

			_, err := f.manager.ManageApplication(context.Background(), "camp-1", tt.volunteer, tt.status, tt.principal(f))
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if got := f.store.campaign("camp-1").VolunteersJoined; got != joined {
				t.Fatalf("expected volunteersJoined %d, got %d", joined, got)
			}
		})
	}
}

func TestApproveRechecksCapacity(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	for _, p := range []types.Principal{f.volunteer, f.second} {
		if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", p); err != nil {
			t.Fatalf("apply %s: %v", p.ID, err)
		}
	}

	if _, err := f.manager.ManageApplication(ctx, "camp-1", "vol-1", types.ApplicationStatusApproved, f.ngo); err != nil {
		t.Fatalf("approve: %v", err)
	}

	_, err := f.manager.ManageApplication(ctx, "camp-1", "vol-2", types.ApplicationStatusApproved, f.ngo)
	if !errors.Is(err, types.ErrCampaignFull) {
		t.Fatalf("expected campaign full, got %v", err)
	}

	if got, want := f.store.campaign("camp-1").VolunteersJoined, f.store.approvedCount("camp-1"); got != want || got != 1 {
		t.Fatalf("expected joined == approved == 1, got joined %d approved %d", got, want)
	}
}

func TestConcurrentApprovalsNeverOvershoot(t *testing.T) {
	const applicants = 20
	f := newFixture(t, 5)
	ctx := context.Background()

	ids := make([]string, 0, applicants)
	for i := 0; i < applicants; i++ {
		p := f.store.addUser(fmt.Sprintf("v-%02d", i), types.RoleVolunteer, "Volunteer")
		if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", p); err != nil {
			t.Fatalf("apply %s: %v", p.ID, err)
		}
		ids = append(ids, p.ID)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = f.manager.ManageApplication(ctx, "camp-1", id, types.ApplicationStatusApproved, f.ngo)
		}(id)
	}
	wg.Wait()

	c := f.store.campaign("camp-1")
	if c.VolunteersJoined != 5 {
		t.Fatalf("expected volunteersJoined 5, got %d", c.VolunteersJoined)
	}
	if got := f.store.approvedCount("camp-1"); got != c.VolunteersJoined {
		t.Fatalf("expected %d approved applications, got %d", c.VolunteersJoined, got)
	}
}

func TestConcurrentDuplicateApplyAcceptsOne(t *testing.T) {
	f := newFixture(t, 5)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		conflict int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.volunteer)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				success++
			case errors.Is(err, types.ErrAlreadyApplied):
				conflict++
			}
		}()
	}
	wg.Wait()

	if success != 1 || conflict != 9 {
		t.Fatalf("expected 1 success and 9 conflicts, got %d and %d", success, conflict)
	}
}

func TestNotificationFailureDoesNotRevert(t *testing.T) {
	f := newFixture(t, 1)
	f.sink.err = errors.New("broker down")
	logger, hook := test.NewNullLogger()
	f.manager.logger = logger

	if _, err := f.manager.ApplyToCampaign(context.Background(), "camp-1", f.volunteer); err != nil {
		t.Fatalf("expected apply to succeed, got %v", err)
	}

	apps, _ := f.store.ApplicationsByCampaign(context.Background(), "camp-1")
	if len(apps) != 1 {
		t.Fatalf("expected application to persist, got %d", len(apps))
	}

	var logged bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.ErrorLevel {
			logged = true
		}
	}
	if !logged {
		t.Fatalf("expected notification failure to be logged")
	}
}

func TestGetMyApplications(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	out, err := f.manager.GetMyApplications(ctx, f.volunteer)
	if err != nil {
		t.Fatalf("empty: %v", err)
	}
	if out == nil || len(out) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", out)
	}

	f.store.addCampaign(&types.Campaign{ID: "camp-2", NGOID: "ngo-2", Title: "Quake Relief", VolunteersNeeded: 3})
	if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.volunteer); err != nil {
		t.Fatalf("apply camp-1: %v", err)
	}
	if _, err := f.manager.ApplyToCampaign(ctx, "camp-1", f.second); err != nil {
		t.Fatalf("apply camp-1 second: %v", err)
	}
	if _, err := f.manager.ApplyToCampaign(ctx, "camp-2", f.volunteer); err != nil {
		t.Fatalf("apply camp-2: %v", err)
	}
	if _, err := f.manager.ManageApplication(ctx, "camp-1", "vol-1", types.ApplicationStatusApproved, f.ngo); err != nil {
		t.Fatalf("approve: %v", err)
	}

	out, err = f.manager.GetMyApplications(ctx, f.volunteer)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 applications, got %d", len(out))
	}

	statuses := map[string]types.ApplicationStatus{}
	for _, a := range out {
		statuses[a.Campaign.ID] = a.ApplicationStatus
		if a.Campaign.NGO == nil {
			t.Fatalf("expected ngo profile on %s", a.Campaign.ID)
		}
	}
	if statuses["camp-1"] != types.ApplicationStatusApproved || statuses["camp-2"] != types.ApplicationStatusPending {
		t.Fatalf("unexpected statuses %v", statuses)
	}

	if _, err := f.manager.GetMyApplications(ctx, f.ngo); !errors.Is(err, types.ErrForbidden) {
		t.Fatalf("expected forbidden for ngo, got %v", err)
	}
}
