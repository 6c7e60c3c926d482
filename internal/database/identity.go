package database

import (
	"context"
	"fmt"
)

// SyncIdentity moves the identity sequence of table.column past every stored
// id. PostgreSQL does not advance an identity column when a row is inserted
// with an explicit id, so the next store-assigned id could collide with it.
// SQLite derives new ids from the current maximum and needs nothing.
//
// table and column are statement constants, never caller input.
func SyncIdentity(ctx context.Context, q Querier, table, column string) error {
	if q.DriverName() != DriverPostgres {
		return nil
	}

	seq := fmt.Sprintf("pg_get_serial_sequence('%s', '%s')", table, column)
	query := fmt.Sprintf("SELECT setval(%s, GREATEST((SELECT MAX(%s) FROM %s), nextval(%s) - 1))", seq, column, table, seq)
	if _, err := q.ExecContext(ctx, query); err != nil {
		return Wrap("sync "+table+" identity", err)
	}
	return nil
}
