package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"groupbuy/internal/core/domain"
)

const pledgeColumns = `id, campaign_id, organization_id, quantity, status, committed_at, created_at, updated_at`

// PledgeRepository implements port.PledgeRepository.
type PledgeRepository struct {
	conn
}

// NewPledgeRepository creates a repository on pool.
func NewPledgeRepository(pool *pgxpool.Pool) *PledgeRepository {
	return &PledgeRepository{conn{pool: pool}}
}

// Create inserts p.
func (r *PledgeRepository) Create(ctx context.Context, p *domain.Pledge) error {
	_, err := r.q(ctx).Exec(ctx, `INSERT INTO pledges (`+pledgeColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.CampaignID, p.OrganizationID, p.Quantity, string(p.Status), p.CommittedAt, p.CreatedAt, p.UpdatedAt)
	return errors.Wrap(err, "insert pledge")
}

// Get returns nil, nil when the pledge does not exist.
func (r *PledgeRepository) Get(ctx context.Context, id uuid.UUID) (*domain.Pledge, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+pledgeColumns+` FROM pledges WHERE id = $1`+lockClause(ctx), id)
	p, err := scanPledge(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select pledge")
	}
	return &p, nil
}

// Update writes quantity, status and commit time.
func (r *PledgeRepository) Update(ctx context.Context, p *domain.Pledge) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE pledges SET quantity = $2, status = $3, committed_at = $4, updated_at = $5 WHERE id = $1`,
		p.ID, p.Quantity, string(p.Status), p.CommittedAt, p.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "update pledge")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPledgeNotFound
	}
	return nil
}

// SumQuantity totals the quantities of the campaign's pledges in status.
func (r *PledgeRepository) SumQuantity(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) (int64, error) {
	var total int64
	err := r.q(ctx).QueryRow(ctx, `SELECT COALESCE(sum(quantity),0) FROM pledges WHERE campaign_id = $1 AND status = $2`,
		campaignID, string(status)).Scan(&total)
	return total, errors.Wrap(err, "sum pledges")
}

// ListByCampaignAndStatus returns matching pledges oldest first.
func (r *PledgeRepository) ListByCampaignAndStatus(ctx context.Context, campaignID uuid.UUID, status domain.PledgeStatus) ([]domain.Pledge, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+pledgeColumns+` FROM pledges
WHERE campaign_id = $1 AND status = $2 ORDER BY created_at, id`, campaignID, string(status))
	if err != nil {
		return nil, errors.Wrap(err, "list pledges")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Pledge, error) {
		return scanPledge(row)
	})
	return out, errors.Wrap(err, "scan pledges")
}

// WithdrawAllPending withdraws pending pledges in one statement.
func (r *PledgeRepository) WithdrawAllPending(ctx context.Context, campaignID uuid.UUID, now time.Time) (int64, error) {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE pledges SET status = $3, updated_at = $4 WHERE campaign_id = $1 AND status = $2`,
		campaignID, string(domain.PledgePending), string(domain.PledgeWithdrawn), now)
	if err != nil {
		return 0, errors.Wrap(err, "withdraw pending pledges")
	}
	return tag.RowsAffected(), nil
}

func scanPledge(row pgx.Row) (domain.Pledge, error) {
	var (
		p      domain.Pledge
		status string
	)
	err := row.Scan(&p.ID, &p.CampaignID, &p.OrganizationID, &p.Quantity, &status, &p.CommittedAt, &p.CreatedAt, &p.UpdatedAt)
	p.Status = domain.PledgeStatus(status)
	return p, err
}
