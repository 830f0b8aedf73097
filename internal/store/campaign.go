package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"revive/internal/utils"
	"revive/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignTableName = "revive.campaigns"

var campaignColumns = utils.StructTagValues(types.Campaign{})

// Columns an update statement must never overwrite.
var campaignImmutableColumns = []string{"id", "ngo_id", "created_at"}

type CampaignRepository struct {
	pool *pgxpool.Pool
}

func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

func (r *CampaignRepository) Campaign(ctx context.Context, campaignID string) (*types.Campaign, error) {
	query, args, err := psql().Select(campaignColumns...).From(campaignTableName).
		Where(sq.Eq{"id": campaignID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaign query: %w", err)
	}

	var campaign = new(types.Campaign)
	err = pgxscan.Get(ctx, r.pool, campaign, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to fetch campaign %s: %w", campaignID, err)
	}

	campaign.SyncCoordinates()

	return campaign, nil
}

// Campaigns lists campaigns matching filters, newest first. Empty filter
// fields are not applied.
func (r *CampaignRepository) Campaigns(ctx context.Context, filters types.CampaignFilters) ([]*types.Campaign, error) {
	query, args, err := campaignsQuery(filters).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaigns query: %w", err)
	}

	return r.selectCampaigns(ctx, query, args)
}

func (r *CampaignRepository) CampaignsByNGO(ctx context.Context, ngoID string) ([]*types.Campaign, error) {
	query, args, err := psql().Select(campaignColumns...).From(campaignTableName).
		Where(sq.Eq{"ngo_id": ngoID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate ngo campaigns query: %w", err)
	}

	return r.selectCampaigns(ctx, query, args)
}

func (r *CampaignRepository) CampaignsByIDs(ctx context.Context, campaignIDs []string) ([]*types.Campaign, error) {
	if len(campaignIDs) == 0 {
		return []*types.Campaign{}, nil
	}

	query, args, err := psql().Select(campaignColumns...).From(campaignTableName).
		Where(sq.Eq{"id": campaignIDs}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate campaigns-by-ids query: %w", err)
	}

	return r.selectCampaigns(ctx, query, args)
}

func (r *CampaignRepository) selectCampaigns(ctx context.Context, query string, args []any) ([]*types.Campaign, error) {
	var campaigns = make([]*types.Campaign, 0)
	err := pgxscan.Select(ctx, r.pool, &campaigns, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch campaigns: %w", err)
	}

	for _, campaign := range campaigns {
		campaign.SyncCoordinates()
	}

	return campaigns, nil
}

func campaignsQuery(filters types.CampaignFilters) sq.SelectBuilder {
	q := psql().Select(campaignColumns...).From(campaignTableName)

	if search := strings.TrimSpace(filters.Search); search != "" {
		q = q.Where(sq.Expr("search_vector @@ plainto_tsquery('simple', ?)", search))
	}

	if filters.Urgency != "" {
		q = q.Where(sq.Eq{"urgency": filters.Urgency})
	}

	if filters.DisasterType != "" {
		q = q.Where(sq.Eq{"disaster_type": filters.DisasterType})
	}

	if filters.Status != "" {
		q = q.Where(sq.Eq{"status": filters.Status})
	}

	return q.OrderBy("created_at DESC")
}

func (r *CampaignRepository) CreateCampaign(ctx context.Context, campaign *types.Campaign) error {

	now := time.Now()
	campaign.ID = utils.NanoID()
	campaign.CreatedAt = now
	campaign.UpdatedAt = now
	if campaign.Categories == nil {
		campaign.Categories = []string{}
	}

	query, args, err := psql().Insert(campaignTableName).SetMap(utils.StructToMap(campaign)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert campaign query: %w", err)
	}

	_, err = r.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create campaign")
}

func (r *CampaignRepository) DeleteCampaign(ctx context.Context, campaignID string) error {

	query, args, err := psql().Delete(campaignTableName).Where(sq.Eq{"id": campaignID}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete campaign query for campaign %s: %w", campaignID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return types.ErrCampaignNotFound
	}

	return nil
}

// WithCampaignLock runs fn in a transaction holding a row lock on the
// campaign. Capacity and duplicate-application decisions for one campaign
// are therefore serialized; other campaigns are unaffected. fn's error
// rolls the transaction back and is returned unchanged.
func (r *CampaignRepository) WithCampaignLock(ctx context.Context, campaignID string, fn func(tx CampaignTx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	query, args, err := psql().Select(campaignColumns...).From(campaignTableName).
		Where(sq.Eq{"id": campaignID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate campaign lock query: %w", err)
	}

	var campaign = new(types.Campaign)
	err = pgxscan.Get(ctx, tx, campaign, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return types.ErrCampaignNotFound
		}
		return fmt.Errorf("failed to lock campaign %s: %w", campaignID, err)
	}

	campaign.SyncCoordinates()

	if err := fn(&campaignTx{tx: tx, campaign: campaign}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
