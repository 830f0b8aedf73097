package store

import (
	"context"
	"fmt"

	"revive/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	pool *pgxpool.Pool
}

func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{pool: pool}
}

type statusCount struct {
	Status types.ApplicationStatus `db:"status"`
	Count  int                     `db:"count"`
}

// ApplicationCountsByVolunteer partitions a volunteer's applications by status.
func (r *StatsRepository) ApplicationCountsByVolunteer(ctx context.Context, volunteerID string) (map[types.ApplicationStatus]int, error) {
	query, args, err := psql().
		Select("status", "count(*) AS count").
		From(applicationTableName).
		Where(sq.Eq{"volunteer_id": volunteerID}).
		GroupBy("status").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application counts query: %w", err)
	}

	var rows []*statusCount
	err = pgxscan.Select(ctx, r.pool, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	counts := make(map[types.ApplicationStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}

type ngoCampaignTotals struct {
	TotalCampaigns     int `db:"total_campaigns"`
	ActiveCampaigns    int `db:"active_campaigns"`
	CompletedCampaigns int `db:"completed_campaigns"`
	VolunteersJoined   int `db:"volunteers_joined"`
}

// NGOStats aggregates over every campaign the NGO owns.
func (r *StatsRepository) NGOStats(ctx context.Context, ngoID string) (*types.NGOStats, error) {
	query, args, err := ngoTotalsQuery(ngoID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ngo totals query: %w", err)
	}

	var totals ngoCampaignTotals
	err = pgxscan.Get(ctx, r.pool, &totals, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ngo campaigns: %w", err)
	}

	query, args, err = ngoPendingQuery(ngoID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ngo pending query: %w", err)
	}

	var pending int
	err = r.pool.QueryRow(ctx, query, args...).Scan(&pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending applications: %w", err)
	}

	return &types.NGOStats{
		TotalCampaigns:         totals.TotalCampaigns,
		ActiveCampaigns:        totals.ActiveCampaigns,
		CompletedCampaigns:     totals.CompletedCampaigns,
		TotalVolunteersEngaged: totals.VolunteersJoined,
		PendingApplications:    pending,
	}, nil
}

func ngoTotalsQuery(ngoID string) sq.SelectBuilder {
	return psql().
		Select(
			"count(*) AS total_campaigns",
			"count(*) FILTER (WHERE status = 'active') AS active_campaigns",
			"count(*) FILTER (WHERE status = 'completed') AS completed_campaigns",
			"coalesce(sum(volunteers_joined), 0) AS volunteers_joined",
		).
		From(campaignTableName).
		Where(sq.Eq{"ngo_id": ngoID})
}

func ngoPendingQuery(ngoID string) sq.SelectBuilder {
	return psql().
		Select("count(*)").
		From(applicationTableName + " a").
		Join(campaignTableName + " c ON c.id = a.campaign_id").
		Where(sq.Eq{"c.ngo_id": ngoID, "a.status": types.ApplicationStatusPending})
}
