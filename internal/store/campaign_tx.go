package store

import (
	"context"
	"fmt"
	"time"

	"revive/internal/utils"
	"revive/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
)

// CampaignTx is the unit of work handed out by WithCampaignLock. All of its
// reads and writes happen inside the transaction that holds the campaign lock.
type CampaignTx interface {
	// Campaign is the locked row as read at the start of the transaction.
	Campaign() *types.Campaign
	Application(ctx context.Context, volunteerID string) (*types.Application, error)
	Applications(ctx context.Context) ([]*types.Application, error)
	InsertApplication(ctx context.Context, application *types.Application) error
	UpdateApplication(ctx context.Context, application *types.Application) error
	SaveCampaign(ctx context.Context, campaign *types.Campaign) error
}

type campaignTx struct {
	tx       pgx.Tx
	campaign *types.Campaign
}

func (t *campaignTx) Campaign() *types.Campaign {
	return t.campaign
}

func (t *campaignTx) Application(ctx context.Context, volunteerID string) (*types.Application, error) {
	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"campaign_id": t.campaign.ID, "volunteer_id": volunteerID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate application query: %w", err)
	}

	var application = new(types.Application)
	err = pgxscan.Get(ctx, t.tx, application, query, args...)
	if err != nil {
		if pgxscan.NotFound(err) {
			return nil, types.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	return application, nil
}

func (t *campaignTx) Applications(ctx context.Context) ([]*types.Application, error) {
	query, args, err := psql().Select(applicationColumns...).From(applicationTableName).
		Where(sq.Eq{"campaign_id": t.campaign.ID}).
		OrderBy("applied_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate applications query: %w", err)
	}

	var applications = make([]*types.Application, 0)
	err = pgxscan.Select(ctx, t.tx, &applications, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, nil
}

func (t *campaignTx) InsertApplication(ctx context.Context, application *types.Application) error {
	application.ID = utils.NanoID()
	application.CampaignID = t.campaign.ID
	application.UpdatedAt = time.Now()

	query, args, err := psql().Insert(applicationTableName).SetMap(utils.StructToMap(application)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert application query: %w", err)
	}

	_, err = t.tx.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return types.ErrAlreadyApplied
		}
		return fmt.Errorf("failed to insert application: %w", err)
	}

	return nil
}

func (t *campaignTx) UpdateApplication(ctx context.Context, application *types.Application) error {
	application.UpdatedAt = time.Now()

	query, args, err := psql().Update(applicationTableName).
		Set("status", application.Status).
		Set("approved_at", application.ApprovedAt).
		Set("updated_at", application.UpdatedAt).
		Where(sq.Eq{"id": application.ID, "campaign_id": t.campaign.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update application query: %w", err)
	}

	_, err = t.tx.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to update application")
}

func (t *campaignTx) SaveCampaign(ctx context.Context, campaign *types.Campaign) error {
	campaign.UpdatedAt = time.Now()
	if campaign.Categories == nil {
		campaign.Categories = []string{}
	}

	query, args, err := psql().Update(campaignTableName).
		SetMap(utils.StructToMap(campaign, campaignImmutableColumns...)).
		Where(sq.Eq{"id": t.campaign.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate update campaign query for campaign %s: %w", t.campaign.ID, err)
	}

	_, err = t.tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}

	t.campaign = campaign

	return nil
}
