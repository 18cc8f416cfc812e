package postgres

import (
	"context"
	stderrors "errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

const campaignColumns = `id, supplier_id, title, description, product_metadata, target_quantity,
start_date, end_date, grace_period_end_date, status, version, created_at, updated_at`

// CampaignRepository implements port.CampaignRepository and
// port.BracketRepository using pgxpool for PostgreSQL.
type CampaignRepository struct {
	conn
}

// NewCampaignRepository creates a repository on pool.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{conn{pool: pool}}
}

// Create inserts the campaign and its brackets. Call it inside a transaction
// so a failing bracket insert leaves no orphan campaign.
func (r *CampaignRepository) Create(ctx context.Context, c *domain.Campaign, brackets []domain.DiscountBracket) error {
	q := r.q(ctx)
	_, err := q.Exec(ctx, `INSERT INTO campaigns (`+campaignColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		c.ID, c.SupplierID, c.Title, c.Description, []byte(c.ProductMetadata), c.TargetQuantity,
		c.StartDate, c.EndDate, c.GracePeriodEndDate, string(c.Status), c.Version, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "insert campaign")
	}
	for _, b := range brackets {
		_, err = q.Exec(ctx, `INSERT INTO discount_brackets
(id, campaign_id, min_quantity, max_quantity, unit_price, bracket_order, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			b.ID, b.CampaignID, b.MinQuantity, b.MaxQuantity, b.UnitPrice, b.BracketOrder, b.CreatedAt)
		if err != nil {
			return errors.Wrapf(err, "insert bracket %d", b.BracketOrder)
		}
	}
	return nil
}

// Get returns a campaign by id, or nil when it does not exist.
func (r *CampaignRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Campaign, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`+lockClause(ctx), id)
	c, err := scanCampaign(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select campaign")
	}
	return c, nil
}

// Update writes the mutable campaign columns guarded by the version column.
func (r *CampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE campaigns
SET title = $3, description = $4, product_metadata = $5, target_quantity = $6,
    start_date = $7, end_date = $8, grace_period_end_date = $9, status = $10,
    updated_at = $11, version = version + 1
WHERE id = $1 AND version = $2`,
		c.ID, c.Version, c.Title, c.Description, []byte(c.ProductMetadata), c.TargetQuantity,
		c.StartDate, c.EndDate, c.GracePeriodEndDate, string(c.Status), c.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update campaign")
	}
	if tag.RowsAffected() == 0 {
		return port.ErrConcurrentModification
	}
	c.Version++
	return nil
}

// ListByStatus returns campaigns in status, oldest first.
func (r *CampaignRepository) ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY created_at, id`, string(status))
	if err != nil {
		return nil, errors.Wrap(err, "list campaigns")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
	return out, errors.Wrap(err, "scan campaigns")
}

// ListByCampaign returns the campaign's brackets ordered by bracket_order.
func (r *CampaignRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.DiscountBracket, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT id, campaign_id, min_quantity, max_quantity, unit_price, bracket_order, created_at
FROM discount_brackets WHERE campaign_id = $1 ORDER BY bracket_order`, campaignID)
	if err != nil {
		return nil, errors.Wrap(err, "list brackets")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DiscountBracket, error) {
		var b domain.DiscountBracket
		err := row.Scan(&b.ID, &b.CampaignID, &b.MinQuantity, &b.MaxQuantity, &b.UnitPrice, &b.BracketOrder, &b.CreatedAt)
		return b, err
	})
	return out, errors.Wrap(err, "scan brackets")
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c        domain.Campaign
		metadata []byte
		status   string
	)
	err := row.Scan(&c.ID, &c.SupplierID, &c.Title, &c.Description, &metadata, &c.TargetQuantity,
		&c.StartDate, &c.EndDate, &c.GracePeriodEndDate, &status, &c.Version, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.ProductMetadata = metadata
	c.Status = domain.CampaignStatus(status)
	return &c, nil
}
