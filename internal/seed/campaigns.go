package seed

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"revive/internal"
	"revive/pkg/types"

	"github.com/jackc/pgx/v5/pgconn"
)

const seedTitlePrefix = "[seed] "

var fakeCampaignPlaces = []string{
	"Riverside District",
	"Old Harbor",
	"North Valley",
	"Coastal Ward 7",
	"Hill Station Road",
	"East Market",
}

var fakeCampaignDescriptions = []string{
	"Distributing food kits and drinking water to displaced families.",
	"Staffing a temporary shelter and helping with registration.",
	"Clearing debris from homes and access roads.",
	"Supporting a field medical camp with triage and logistics.",
	"Sorting donated supplies at the central warehouse.",
}

var fakeCategories = []string{"food", "shelter", "medical", "logistics", "rescue", "cleanup"}

type weightedUrgency struct {
	Urgency types.Urgency
	Weight  int
}

var weightedUrgencies = []weightedUrgency{
	{Urgency: types.UrgencyCritical, Weight: 15},
	{Urgency: types.UrgencyHigh, Weight: 30},
	{Urgency: types.UrgencyMedium, Weight: 40},
	{Urgency: types.UrgencyLow, Weight: 15},
}

// CampaignWriter is the slice of campaign.Manager the seeder drives, so
// seeded data goes through the same capacity rules as live traffic.
type CampaignWriter interface {
	CreateCampaign(ctx context.Context, input types.CampaignInput, principal types.Principal) (*types.Campaign, error)
	ApplyToCampaign(ctx context.Context, campaignID string, principal types.Principal) (*types.Application, error)
	ManageApplication(ctx context.Context, campaignID, volunteerID string, status types.ApplicationStatus, principal types.Principal) (*types.Application, error)
}

type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func SeedFakeCampaigns(
	ctx context.Context,
	db Execer,
	manager CampaignWriter,
	rng *rand.Rand,
	count int,
	reset bool,
) error {
	if count <= 0 {
		fmt.Println("Skipping fake campaigns seed because count <= 0")
		return nil
	}

	if reset {
		result, err := db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s.campaigns WHERE title LIKE $1`, internal.DB_SCHEMA), seedTitlePrefix+"%")
		if err != nil {
			return fmt.Errorf("failed to reset seeded fake campaigns: %w", err)
		}
		fmt.Printf("Reset seeded fake campaigns: %d deleted\n", result.RowsAffected())
	}

	ngos := seedPrincipals(types.RoleNGO)
	volunteers := seedPrincipals(types.RoleVolunteer)
	if len(ngos) == 0 || len(volunteers) == 0 {
		return fmt.Errorf("no fake users available; seed fake users first")
	}

	created, applied, approved := 0, 0, 0
	for i := 0; i < count; i++ {
		ngo := ngos[rng.Intn(len(ngos))]
		input := fakeCampaignInput(rng)

		campaign, err := manager.CreateCampaign(ctx, input, ngo)
		if err != nil {
			return fmt.Errorf("failed to create fake campaign %d: %w", i+1, err)
		}
		created++

		for _, idx := range rng.Perm(len(volunteers))[:rng.Intn(len(volunteers)+1)] {
			volunteer := volunteers[idx]

			_, err := manager.ApplyToCampaign(ctx, campaign.ID, volunteer)
			if errors.Is(err, types.ErrCampaignFull) {
				break
			}
			if err != nil {
				return fmt.Errorf("failed to apply %s to fake campaign %s: %w", volunteer.ID, campaign.ID, err)
			}
			applied++

			roll := rng.Intn(100)
			var status types.ApplicationStatus
			switch {
			case roll < 50:
				status = types.ApplicationStatusApproved
			case roll < 65:
				status = types.ApplicationStatusRejected
			default:
				continue
			}

			_, err = manager.ManageApplication(ctx, campaign.ID, volunteer.ID, status, ngo)
			if errors.Is(err, types.ErrCampaignFull) {
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to %s %s on fake campaign %s: %w", status, volunteer.ID, campaign.ID, err)
			}
			if status == types.ApplicationStatusApproved {
				approved++
			}
		}
	}

	fmt.Printf("Fake campaigns seeded: %d created, %d applications, %d approved\n", created, applied, approved)
	return nil
}

func fakeCampaignInput(rng *rand.Rand) types.CampaignInput {
	disaster := types.DisasterTypes[rng.Intn(len(types.DisasterTypes))]
	place := fakeCampaignPlaces[rng.Intn(len(fakeCampaignPlaces))]

	start := time.Now().UTC().Truncate(time.Hour).Add(time.Duration(rng.Intn(14*24)-7*24) * time.Hour)
	end := start.Add(time.Duration(rng.Intn(21)+1) * 24 * time.Hour)

	n := rng.Intn(3) + 1
	categories := make(types.CategoryList, 0, n)
	for j := 0; j < n; j++ {
		categories = append(categories, fakeCategories[rng.Intn(len(fakeCategories))])
	}

	return types.CampaignInput{
		Title:            fmt.Sprintf("%s%s response in %s", seedTitlePrefix, disaster, place),
		Description:      fakeCampaignDescriptions[rng.Intn(len(fakeCampaignDescriptions))],
		DisasterType:     disaster,
		Location:         place,
		Urgency:          pickWeightedUrgency(rng),
		VolunteersNeeded: rng.Intn(8) + 1,
		StartDate:        types.DateTime{Time: start},
		EndDate:          types.DateTime{Time: end},
		Categories:       categories,
	}
}

func pickWeightedUrgency(rng *rand.Rand) types.Urgency {
	total := 0
	for _, item := range weightedUrgencies {
		total += item.Weight
	}

	if total == 0 {
		return types.UrgencyMedium
	}

	roll := rng.Intn(total)
	running := 0
	for _, item := range weightedUrgencies {
		running += item.Weight
		if roll < running {
			return item.Urgency
		}
	}

	return types.UrgencyMedium
}
