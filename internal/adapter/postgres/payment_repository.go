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

const paymentColumns = `id, campaign_id, pledge_id, organization_id, amount, status, retry_count, version,
created_at, updated_at`

// PaymentIntentRepository implements port.PaymentIntentRepository. Rows are
// never deleted.
type PaymentIntentRepository struct {
	conn
}

// NewPaymentIntentRepository creates a repository on pool.
func NewPaymentIntentRepository(pool *pgxpool.Pool) *PaymentIntentRepository {
	return &PaymentIntentRepository{conn{pool: pool}}
}

// CreateIfAbsent skips the insert when the pledge already has an intent.
func (r *PaymentIntentRepository) CreateIfAbsent(ctx context.Context, pi *domain.PaymentIntent) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, `INSERT INTO payment_intents (`+paymentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (campaign_id, pledge_id) DO NOTHING`,
		pi.ID, pi.CampaignID, pi.PledgeID, pi.OrganizationID, pi.Amount, string(pi.Status), pi.RetryCount,
		pi.Version, pi.CreatedAt, pi.UpdatedAt)
	if err != nil {
		return false, errors.Wrap(err, "insert payment intent")
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns nil, nil when the intent does not exist.
func (r *PaymentIntentRepository) Get(ctx context.Context, id uuid.UUID) (*domain.PaymentIntent, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_intents WHERE id = $1`+lockClause(ctx), id)
	pi, err := scanPaymentIntent(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select payment intent")
	}
	return &pi, nil
}

// Update writes pi if its version is current and bumps the version.
func (r *PaymentIntentRepository) Update(ctx context.Context, pi *domain.PaymentIntent) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE payment_intents
SET status = $3, retry_count = $4, updated_at = $5, version = version + 1
WHERE id = $1 AND version = $2`,
		pi.ID, pi.Version, string(pi.Status), pi.RetryCount, pi.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update payment intent")
	}
	if tag.RowsAffected() == 0 {
		return port.ErrConcurrentModification
	}
	pi.Version++
	return nil
}

// ListByCampaign returns the campaign's intents oldest first.
func (r *PaymentIntentRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.PaymentIntent, error) {
	return r.list(ctx, `campaign_id = $1`, campaignID)
}

// ListByStatus returns every intent in status, oldest first.
func (r *PaymentIntentRepository) ListByStatus(ctx context.Context, status domain.PaymentStatus) ([]domain.PaymentIntent, error) {
	return r.list(ctx, `status = $1`, string(status))
}

func (r *PaymentIntentRepository) list(ctx context.Context, where string, arg any) ([]domain.PaymentIntent, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+paymentColumns+` FROM payment_intents WHERE `+where+` ORDER BY created_at, id`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "list payment intents")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.PaymentIntent, error) {
		return scanPaymentIntent(row)
	})
	return out, errors.Wrap(err, "scan payment intents")
}

func scanPaymentIntent(row pgx.Row) (domain.PaymentIntent, error) {
	var (
		pi     domain.PaymentIntent
		status string
	)
	err := row.Scan(&pi.ID, &pi.CampaignID, &pi.PledgeID, &pi.OrganizationID, &pi.Amount, &status, &pi.RetryCount,
		&pi.Version, &pi.CreatedAt, &pi.UpdatedAt)
	pi.Status = domain.PaymentStatus(status)
	return pi, err
}
