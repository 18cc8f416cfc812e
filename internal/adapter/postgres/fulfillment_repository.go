package postgres

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"groupbuy/internal/core/domain"
)

const fulfillmentColumns = `id, campaign_id, pledge_id, organization_id, delivery_status, created_at, updated_at`

// FulfillmentRepository implements port.FulfillmentRepository.
type FulfillmentRepository struct {
	conn
}

// NewFulfillmentRepository creates a repository on pool.
func NewFulfillmentRepository(pool *pgxpool.Pool) *FulfillmentRepository {
	return &FulfillmentRepository{conn{pool: pool}}
}

// CreateIfAbsent skips the insert when the pledge already has a row.
func (r *FulfillmentRepository) CreateIfAbsent(ctx context.Context, f *domain.CampaignFulfillment) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, `INSERT INTO campaign_fulfillments (`+fulfillmentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (campaign_id, pledge_id) DO NOTHING`,
		f.ID, f.CampaignID, f.PledgeID, f.OrganizationID, string(f.DeliveryStatus), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return false, errors.Wrap(err, "insert fulfillment")
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns nil, nil when the row does not exist.
func (r *FulfillmentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.CampaignFulfillment, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+fulfillmentColumns+` FROM campaign_fulfillments WHERE id = $1`+lockClause(ctx), id)
	f, err := scanFulfillment(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select fulfillment")
	}
	return &f, nil
}

// Update writes the delivery status.
func (r *FulfillmentRepository) Update(ctx context.Context, f *domain.CampaignFulfillment) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE campaign_fulfillments SET delivery_status = $2, updated_at = $3 WHERE id = $1`,
		f.ID, string(f.DeliveryStatus), f.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update fulfillment")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFulfillmentNotFound
	}
	return nil
}

// ListByCampaign returns the campaign's fulfillment rows.
func (r *FulfillmentRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.CampaignFulfillment, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+fulfillmentColumns+` FROM campaign_fulfillments
WHERE campaign_id = $1 ORDER BY created_at, id`, campaignID)
	if err != nil {
		return nil, errors.Wrap(err, "list fulfillments")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CampaignFulfillment, error) {
		return scanFulfillment(row)
	})
	return out, errors.Wrap(err, "scan fulfillments")
}

func scanFulfillment(row pgx.Row) (domain.CampaignFulfillment, error) {
	var (
		f      domain.CampaignFulfillment
		status string
	)
	err := row.Scan(&f.ID, &f.CampaignID, &f.PledgeID, &f.OrganizationID, &status, &f.CreatedAt, &f.UpdatedAt)
	f.DeliveryStatus = domain.DeliveryStatus(status)
	return f, err
}
