package postgres

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"groupbuy/internal/core/port"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so repositories
// can run on either.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type txKey struct{}

func txFrom(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// conn picks the transaction carried by ctx, or the pool.
type conn struct {
	pool *pgxpool.Pool
}

func (c conn) q(ctx context.Context) querier {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return c.pool
}

// lockClause returns FOR UPDATE inside a transaction so the loaded row stays
// locked until commit.
func lockClause(ctx context.Context) string {
	if _, ok := txFrom(ctx); ok {
		return " FOR UPDATE"
	}
	return ""
}

// Transactor implements port.Transactor on a pgx pool.
type Transactor struct {
	pool *pgxpool.Pool
}

// NewTransactor creates a transactor on pool.
func NewTransactor(pool *pgxpool.Pool) *Transactor {
	return &Transactor{pool: pool}
}

// WithinTx runs fn in a serializable transaction. Serialization failures and
// deadlocks surface as port.ErrConcurrentModification. A panic in fn rolls
// the transaction back and is re-raised.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	tx, err := t.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			err = translate(err)
			return
		}
		err = translate(errors.Wrap(tx.Commit(ctx), "commit transaction"))
	}()
	return fn(context.WithValue(ctx, txKey{}, tx))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && (pgErr.Code == "40001" || pgErr.Code == "40P01") {
		return errors.Wrap(port.ErrConcurrentModification, pgErr.Message)
	}
	return err
}
