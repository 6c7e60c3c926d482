// Package database is the connection provider and unit-of-work support shared
// by every data-access package. It opens the store (SQLite or PostgreSQL),
// bootstraps the schema, and classifies store failures.
package database

import (
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Supported driver names, as registered with database/sql.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)

// ErrUnsupportedDriver is returned by Open for a driver other than DriverSQLite or DriverPostgres.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Open connects to the store. For SQLite, dsn is a file path; foreign key
// enforcement is switched on for every pooled connection and WAL is enabled.
// For PostgreSQL, dsn is a connection URL handed to pgx.
func Open(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		return openSQLite(dsn)
	case DriverPostgres:
		db, err := sqlx.Connect(DriverPostgres, dsn)
		if err != nil {
			return nil, Wrap("connect postgres", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// SQLiteDSN appends the connection parameters every SQLite connection needs.
// Foreign keys are a per-connection setting in SQLite, so they go in the DSN
// rather than a one-off PRAGMA.
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect(SQLiteDriverName, SQLiteDSN(path))
	if err != nil {
		return nil, Wrap("connect sqlite", err)
	}

	// WAL mode is only required once after creating the database, but
	// doesn't hurt to set it each time
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		db.Close()
		return nil, Wrap("set journal mode", err)
	}

	if err := CheckForeignKeys(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// CheckForeignKeys verifies that SQLite enforces foreign keys on this pool.
func CheckForeignKeys(db *sqlx.DB) error {
	var fkEnabled int
	if err := db.QueryRow(`PRAGMA foreign_keys;`).Scan(&fkEnabled); err != nil {
		return Wrap("foreign key support check", err)
	}
	if fkEnabled != 1 {
		return errors.New("SQLite foreign keys not supported (requires SQLite 3.6.19+ compiled without SQLITE_OMIT_FOREIGN_KEY)")
	}
	return nil
}
