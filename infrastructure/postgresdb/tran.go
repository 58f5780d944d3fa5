package postgresdb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type tranKey int

const txKey tranKey = 1

// setTran stores the open transaction in the context so stores can
// participate without a signature change.
func setTran(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey, tx)
}

// GetTran returns the transaction from the context, if one is open.
func GetTran(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey).(pgx.Tx)
	return tx, ok
}

// Querier abstracts pool vs transaction so store methods run in either.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Q returns the context transaction when present, the pool otherwise.
// Every store method routes its SQL through this.
func Q(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := GetTran(ctx); ok {
		return tx
	}
	return pool
}

// WithinTran runs fn inside a single database transaction. The transaction
// travels through the context so nested repository calls share it; nesting
// WithinTran reuses the outer transaction.
func WithinTran(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if _, ok := GetTran(ctx); ok {
		return fn(ctx)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tran: %w", err)
	}

	defer func() {
		// Rollback after commit is a harmless no-op.
		if rerr := tx.Rollback(ctx); rerr != nil && !errors.Is(rerr, pgx.ErrTxClosed) {
			_ = rerr
		}
	}()

	if err := fn(setTran(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tran: %w", err)
	}

	return nil
}
