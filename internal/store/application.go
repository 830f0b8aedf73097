package store

import (
	"context"
	"fmt"

	"revive/internal/utils"
	"revive/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationTableName = "revive.applications"

var applicationColumns = utils.StructTagValues(types.Application{})

// ApplicationRepository serves read paths. Writes go through
// CampaignRepository.WithCampaignLock.
type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) ApplicationsByCampaign(ctx context.Context, campaignID string) ([]*types.Application, error) {
	return r.ApplicationsByCampaigns(ctx, []string{campaignID})
}

// ApplicationsByCampaigns returns applications for all the given campaigns,
// oldest application first.
func (r *ApplicationRepository) ApplicationsByCampaigns(ctx context.Context, campaignIDs []string) ([]*types.Application, error) {
	if len(campaignIDs) == 0 {
		return []*types.Application{}, nil
	}

	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"campaign_id": campaignIDs}).
		OrderBy("applied_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications query: %w", err)
	}

	var applications = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, nil
}

func (r *ApplicationRepository) ApplicationsByVolunteer(ctx context.Context, volunteerID string) ([]*types.Application, error) {
	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"volunteer_id": volunteerID}).
		OrderBy("applied_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate volunteer applications query: %w", err)
	}

	var applications = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, r.pool, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch volunteer applications: %w", err)
	}

	return applications, nil
}
