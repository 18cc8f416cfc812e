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

const invoiceColumns = `id, invoice_number, campaign_id, pledge_id, organization_id, quantity, unit_price, amount,
status, created_at, updated_at`

// InvoiceRepository implements port.InvoiceRepository. Amounts are written
// once on insert and never updated.
type InvoiceRepository struct {
	conn
}

// NewInvoiceRepository creates a repository on pool.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{conn{pool: pool}}
}

// CreateIfAbsent skips the insert when the pledge already has an invoice.
func (r *InvoiceRepository) CreateIfAbsent(ctx context.Context, inv *domain.Invoice) (bool, error) {
	tag, err := r.q(ctx).Exec(ctx, `INSERT INTO invoices (`+invoiceColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (campaign_id, pledge_id) DO NOTHING`,
		inv.ID, inv.InvoiceNumber, inv.CampaignID, inv.PledgeID, inv.OrganizationID, inv.Quantity,
		inv.UnitPrice, inv.Amount, string(inv.Status), inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return false, errors.Wrap(err, "insert invoice")
	}
	return tag.RowsAffected() == 1, nil
}

// ListByCampaign returns the campaign's invoices oldest first.
func (r *InvoiceRepository) ListByCampaign(ctx context.Context, campaignID uuid.UUID) ([]domain.Invoice, error) {
	rows, err := r.q(ctx).Query(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE campaign_id = $1 ORDER BY created_at, id`, campaignID)
	if err != nil {
		return nil, errors.Wrap(err, "list invoices")
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Invoice, error) {
		return scanInvoice(row)
	})
	return out, errors.Wrap(err, "scan invoices")
}

// GetByPledge returns nil, nil when the pledge has no invoice.
func (r *InvoiceRepository) GetByPledge(ctx context.Context, pledgeID uuid.UUID) (*domain.Invoice, error) {
	row := r.q(ctx).QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE pledge_id = $1`+lockClause(ctx), pledgeID)
	inv, err := scanInvoice(row)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "select invoice")
	}
	return &inv, nil
}

// UpdateStatus changes the status only. Amounts are never rewritten.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, now time.Time) error {
	_, err := r.q(ctx).Exec(ctx, `UPDATE invoices SET status = $2, updated_at = $3 WHERE id = $1`, id, string(status), now)
	return errors.Wrap(err, "update invoice status")
}

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var (
		inv    domain.Invoice
		status string
	)
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.CampaignID, &inv.PledgeID, &inv.OrganizationID, &inv.Quantity,
		&inv.UnitPrice, &inv.Amount, &status, &inv.CreatedAt, &inv.UpdatedAt)
	inv.Status = domain.InvoiceStatus(status)
	return inv, err
}
