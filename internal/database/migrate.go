package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GuiaBolso/darwin"
)

// ApplicationID is the SQLite application_id for storefront databases.
// "LVST" in ASCII: L=0x4C, V=0x56, S=0x53, T=0x54
const ApplicationID = 0x4C565354

// ErrInvalidDatabase is returned when the database is not a valid storefront database.
var ErrInvalidDatabase = errors.New("not a valid 'storefront' database")

// defineMigrations returns the schema steps for the given driver.
// comments must only appear after sql on a line and cannot span lines (comments are stripped before checksum calc)
// *NEVER* change/remove a step once released! (because a checksum of the script is saved with the migration)
func defineMigrations(driver string) []darwin.Migration {
	if driver == DriverPostgres {
		return postgresMigrations()
	}
	return sqliteMigrations()
}

func sqliteMigrations() []darwin.Migration {
	return []darwin.Migration{
		{Version: 1.00, Description: "Set application_id", Script: `
		PRAGMA application_id = 0x4C565354;`},

		{Version: 1.01, Description: "Create Table 'customer'", Script: `
		CREATE TABLE IF NOT EXISTS customer (
			customer_id INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL CHECK (length(trim(name)) > 0),
			email VARCHAR(255) NOT NULL DEFAULT ''
		);`},

		{Version: 1.02, Description: "Create Table 'customer_detail'", Script: `
		CREATE TABLE IF NOT EXISTS customer_detail (
			customer_id INTEGER PRIMARY KEY,
			address VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) CHECK (phone IS NULL OR length(trim(phone)) > 0), -- unknown phone is NULL, never blank
			notes TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (customer_id) REFERENCES customer (customer_id) ON DELETE CASCADE
		);`},

		{Version: 1.03, Description: "Create Table 'product'", Script: `
		CREATE TABLE IF NOT EXISTS product (
			product_id INTEGER PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
		);`},

		{Version: 1.04, Description: "Create Table 'orders'", Script: `
		CREATE TABLE IF NOT EXISTS orders (
			order_id INTEGER PRIMARY KEY,
			customer_id INTEGER NOT NULL,
			order_date DATE NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customer (customer_id)
		);`},

		{Version: 1.05, Description: "Create Index 'idx_orders_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id ASC);`},

		{Version: 1.06, Description: "Create Table 'order_line'", Script: `
		CREATE TABLE IF NOT EXISTS order_line (
			order_id INTEGER NOT NULL,
			product_id INTEGER NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0),
			CONSTRAINT pk_order_line PRIMARY KEY (order_id, product_id),
			FOREIGN KEY (order_id) REFERENCES orders (order_id) ON DELETE CASCADE,
			FOREIGN KEY (product_id) REFERENCES product (product_id)
		);`},

		{Version: 1.07, Description: "Create Index 'idx_order_line_product_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_order_line_product_id ON order_line (product_id ASC);`},
	}
}

func postgresMigrations() []darwin.Migration {
	return []darwin.Migration{
		{Version: 1.01, Description: "Create Table 'customer'", Script: `
		CREATE TABLE IF NOT EXISTS customer (
			customer_id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			name VARCHAR(255) NOT NULL CHECK (length(trim(name)) > 0),
			email VARCHAR(255) NOT NULL DEFAULT ''
		);`},

		{Version: 1.02, Description: "Create Table 'customer_detail'", Script: `
		CREATE TABLE IF NOT EXISTS customer_detail (
			customer_id BIGINT PRIMARY KEY REFERENCES customer (customer_id) ON DELETE CASCADE,
			address VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) CHECK (phone IS NULL OR length(trim(phone)) > 0),
			notes TEXT NOT NULL DEFAULT ''
		);`},

		{Version: 1.03, Description: "Create Table 'product'", Script: `
		CREATE TABLE IF NOT EXISTS product (
			product_id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			price NUMERIC(10,2) NOT NULL CHECK (price >= 0)
		);`},

		{Version: 1.04, Description: "Create Table 'orders'", Script: `
		CREATE TABLE IF NOT EXISTS orders (
			order_id BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
			customer_id BIGINT NOT NULL REFERENCES customer (customer_id),
			order_date DATE NOT NULL
		);`},

		{Version: 1.05, Description: "Create Index 'idx_orders_customer_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_orders_customer_id ON orders (customer_id ASC);`},

		{Version: 1.06, Description: "Create Table 'order_line'", Script: `
		CREATE TABLE IF NOT EXISTS order_line (
			order_id BIGINT NOT NULL REFERENCES orders (order_id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES product (product_id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0),
			CONSTRAINT pk_order_line PRIMARY KEY (order_id, product_id)
		);`},

		{Version: 1.07, Description: "Create Index 'idx_order_line_product_id'", Script: `
		CREATE INDEX IF NOT EXISTS idx_order_line_product_id ON order_line (product_id ASC);`},
	}
}

// changes returns a user-friendly display of database version changes
func changes(v1, v2 float64) string {
	if v1 != v2 {
		return fmt.Sprintf("DB Version: %.2f (migrated from %.2f to %.2f)", v2, v1, v2)
	}
	return fmt.Sprintf("DB Version: %.2f", v1)
}

// currentVersion reads from migration table to get the latest version and number of steps applied
func currentVersion(db *sql.DB, driver string) (count int, ver float64, err error) {
	// might not have any migrations yet...
	s := `select count(*) as n from sqlite_master where tbl_name = 'darwin_migrations';`
	if driver == DriverPostgres {
		s = `select count(*) as n from information_schema.tables where table_name = 'darwin_migrations';`
	}
	err = db.QueryRow(s).Scan(&count)
	if err != nil || count == 0 {
		return 0, 0, err
	}

	s = `select count(*) as n, max(version) as ver from darwin_migrations;`
	err = db.QueryRow(s).Scan(&count, &ver)
	return count, ver, err
}

// minifiedMigrations returns our migrations with minified scripts so comments or formatting changes
// will not generate a new checksum
func minifiedMigrations(driver string) []darwin.Migration {
	migrations := defineMigrations(driver)
	for i := range migrations {
		migrations[i].Script = minify(migrations[i].Script)
	}
	return migrations
}

// minify simplifies the script to keep certain changes (spaces, tabs, case and comments) from
// creating a new checksum
func minify(script string) string {
	b := strings.Builder{}
	s := strings.ToLower(strings.ReplaceAll(script, "/*", "--"))
	for _, line := range strings.Split(s, "\n") {
		if i := strings.Index(line, "--"); i != -1 {
			line = line[0:i]
		}
		b.WriteString(strings.TrimSpace(line) + "\n")
	}
	result := strings.TrimSpace(strings.ReplaceAll(b.String(), "\t", " "))
	before := 0
	for len(result) != before {
		before = len(result)
		result = strings.ReplaceAll(result, "  ", " ")
	}
	return strings.TrimSpace(result)
}

// progress returns the steps attempted during this migration
func progress(ch <-chan darwin.MigrationInfo) string {
	var b strings.Builder
	for info := range ch {
		_, _ = fmt.Fprintf(&b, "v%.2f: %q (%s) Error: %v\n",
			info.Migration.Version, info.Migration.Description, info.Status.String(), info.Error)
	}
	return b.String()
}

// Schema returns the schema definitions for driver as a string for display.
func Schema(driver string) string {
	var b strings.Builder
	for _, m := range defineMigrations(driver) {
		_, _ = fmt.Fprintf(&b, "-- %s (%.2f)\n%s\n\n", m.Description, m.Version, m.Script)
	}
	return b.String()
}

// VerifyApplicationID checks that a SQLite database has the storefront application_id.
// Returns nil for empty databases (application_id = 0, no tables) or storefront databases.
func VerifyApplicationID(db *sql.DB) error {
	var appID int
	if err := db.QueryRow("PRAGMA application_id;").Scan(&appID); err != nil {
		return fmt.Errorf("read application_id: %w", err)
	}

	if appID == ApplicationID {
		return nil
	}
	if appID != 0 {
		return fmt.Errorf("%w (application_id 0x%X)", ErrInvalidDatabase, appID)
	}

	// appID is 0 - only accept if database is empty (no user tables)
	var tableCount int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'`).Scan(&tableCount)
	if err != nil {
		return fmt.Errorf("check tables: %w", err)
	}
	if tableCount > 0 {
		return fmt.Errorf("%w (has tables but no application_id)", ErrInvalidDatabase)
	}
	return nil
}

// RunMigrations applies all schema steps for driver to an already-open *sql.DB.
func RunMigrations(db *sql.DB, driver string) error {
	dialect := darwin.Dialect(darwin.SqliteDialect{})
	if driver == DriverPostgres {
		dialect = darwin.PostgresDialect{}
	} else if err := VerifyApplicationID(db); err != nil {
		return err
	}

	count, v1, err := currentVersion(db, driver)
	if err != nil {
		return err
	}

	migrations := minifiedMigrations(driver)
	if count == len(migrations) && v1 == migrations[count-1].Version {
		slog.Info("database schema is current", "version", fmt.Sprintf("%.2f", v1))
		return nil
	}

	driverImpl := darwin.NewGenericDriver(db, dialect)
	infoChan := make(chan darwin.MigrationInfo, len(migrations))
	d := darwin.New(driverImpl, migrations, infoChan)

	if err := d.Migrate(); err != nil {
		close(infoChan)
		_, v2, _ := currentVersion(db, driver)
		prog := progress(infoChan)
		slog.Error("migration failed", "from", v1, "to", v2, "error", err, "steps", prog)
		return fmt.Errorf("migration error: %w\n%s", err, prog)
	}
	close(infoChan)

	_, v2, err := currentVersion(db, driver)
	if err != nil {
		return err
	}

	slog.Info(changes(v1, v2))
	return nil
}
