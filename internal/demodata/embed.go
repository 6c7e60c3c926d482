// Package demodata provides sample data for demo deployments.
package demodata

import (
	"context"
	"embed"

	"github.com/jmoiron/sqlx"

	"lampreasvioleta.com/storefront/internal/database"
)

//go:embed sample.sql
var sampleSQL embed.FS

// Load inserts demo data into the database in one transaction.
// This should only be called on a freshly created database after migrations.
func Load(ctx context.Context, db *sqlx.DB) error {
	data, err := sampleSQL.ReadFile("sample.sql")
	if err != nil {
		return err
	}

	return database.WithTx(ctx, db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, string(data)); err != nil {
			return database.Wrap("load demo data", err)
		}
		return nil
	})
}
