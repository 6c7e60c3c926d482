package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Querier is the statement surface shared by *sqlx.DB and *sqlx.Tx. Every
// data-access operation is written once against a Querier so the standalone
// and the transactional variant run the exact same code.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

var (
	_ Querier = (*sqlx.DB)(nil)
	_ Querier = (*sqlx.Tx)(nil)
)

// WithTx runs fn inside a single transaction (unit of work). The transaction
// is committed when fn returns nil and rolled back otherwise. Repositories
// handed the *sqlx.Tx only participate; beginning and ending it is the
// job of WithTx or whichever caller opened it.
func WithTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return Wrap("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return Wrap("commit transaction", err)
	}
	return nil
}
