// Package backup writes gzip-compressed SQL dumps of a storefront SQLite
// database next to the database file.
package backup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/klauspost/compress/gzip"

	"lampreasvioleta.com/storefront/internal/database"
)

// ErrSQLiteOnly is returned when a backup is requested for a non-SQLite store.
var ErrSQLiteOnly = errors.New("backups are only supported for sqlite databases")

type Service struct {
	db     *sqlx.DB
	driver string
	dbPath string
	now    func() time.Time
}

func NewService(db *sqlx.DB, driver, dbPath string) *Service {
	return &Service{
		db:     db,
		driver: driver,
		dbPath: dbPath,
		now:    time.Now,
	}
}

// Result describes a completed backup.
type Result struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Size     int64  `json:"size"`
	Tables   int    `json:"tables"`
	Rows     int    `json:"rows"`
}

// Create dumps the database into backups/<timestamp>_storefront.sql.gz
// beside the database file. The dump is taken from a VACUUM INTO snapshot so
// writers are not blocked while rows are formatted.
func (s *Service) Create(ctx context.Context) (*Result, error) {
	if s.driver != database.DriverSQLite {
		return nil, ErrSQLiteOnly
	}

	backupDir := filepath.Join(filepath.Dir(s.dbPath), "backups")
	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup directory: %w", err)
	}

	filename := s.now().Format("2006-01-02_15.04.05") + "_storefront.sql.gz"
	backupPath := filepath.Join(backupDir, filename)

	snapshotPath := filepath.Join(backupDir, "snapshot-"+uuid.NewString()+".db")
	defer os.Remove(snapshotPath)

	if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshotPath); err != nil {
		return nil, database.Wrap("vacuum into snapshot", err)
	}

	snapshot, err := sqlx.Open(database.DriverSQLite, snapshotPath+"?mode=ro")
	if err != nil {
		return nil, database.Wrap("open snapshot", err)
	}
	defer snapshot.Close()

	file, err := os.Create(backupPath)
	if err != nil {
		return nil, fmt.Errorf("create backup file: %w", err)
	}

	d, err := writeDump(ctx, snapshot, file, s.now())
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close backup file: %w", closeErr)
	}
	if err != nil {
		os.Remove(backupPath)
		return nil, err
	}

	info, err := os.Stat(backupPath)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	return &Result{
		Filename: filename,
		Path:     backupPath,
		Size:     info.Size(),
		Tables:   d.tables,
		Rows:     d.rows,
	}, nil
}

type dumper struct {
	w      *bufio.Writer
	tables int
	rows   int
}

func writeDump(ctx context.Context, db *sqlx.DB, w io.Writer, at time.Time) (*dumper, error) {
	gz := gzip.NewWriter(w)
	d := &dumper{w: bufio.NewWriter(gz)}

	if err := d.dump(ctx, db, at); err != nil {
		return nil, err
	}
	if err := d.w.Flush(); err != nil {
		return nil, fmt.Errorf("write dump: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("close gzip writer: %w", err)
	}
	return d, nil
}

func (d *dumper) dump(ctx context.Context, db *sqlx.DB, at time.Time) error {
	fmt.Fprintf(d.w, "-- Storefront database backup\n-- Generated: %s\n", at.Format(time.RFC3339))
	fmt.Fprintf(d.w, "PRAGMA application_id = %d;\n", database.ApplicationID)
	d.w.WriteString("PRAGMA foreign_keys=OFF;\nBEGIN TRANSACTION;\n\n")

	var objects []struct {
		Type string `db:"type"`
		Name string `db:"name"`
		SQL  string `db:"sql"`
	}
	err := db.SelectContext(ctx, &objects, `
		SELECT type, name, sql
		FROM sqlite_master
		WHERE sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY
			CASE type
				WHEN 'table' THEN 1
				WHEN 'index' THEN 2
				WHEN 'trigger' THEN 3
				WHEN 'view' THEN 4
			END,
			name`)
	if err != nil {
		return database.Wrap("query schema", err)
	}

	var tables []string
	for _, o := range objects {
		d.w.WriteString(o.SQL)
		d.w.WriteString(";\n")
		if o.Type == "table" {
			tables = append(tables, o.Name)
		}
	}
	d.w.WriteString("\n")

	for _, table := range tables {
		if err := d.table(ctx, db, table); err != nil {
			return fmt.Errorf("dump %s: %w", table, err)
		}
		d.tables++
	}

	d.w.WriteString("COMMIT;\n")
	return nil
}

func (d *dumper) table(ctx context.Context, db *sqlx.DB, table string) error {
	rows, err := db.QueryxContext(ctx, fmt.Sprintf("SELECT * FROM %q", table))
	if err != nil {
		return database.Wrap("query rows", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return database.Wrap("read columns", err)
	}
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = strconv.Quote(col)
	}
	prefix := fmt.Sprintf("INSERT INTO %q (%s) VALUES (", table, strings.Join(quoted, ", "))

	for rows.Next() {
		row, err := rows.SliceScan()
		if err != nil {
			return database.Wrap("scan row", err)
		}
		d.w.WriteString(prefix)
		for i, v := range row {
			if i > 0 {
				d.w.WriteString(", ")
			}
			d.w.WriteString(literal(v))
		}
		d.w.WriteString(");\n")
		d.rows++
	}
	if err := rows.Err(); err != nil {
		return database.Wrap("iterate rows", err)
	}
	return nil
}

// literal renders v as a SQLite literal.
func literal(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return quote(string(val))
	case string:
		return quote(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		// DATE columns come back as midnight UTC.
		if val.Equal(val.Truncate(24 * time.Hour)) {
			return quote(val.UTC().Format(time.DateOnly))
		}
		return quote(val.UTC().Format(time.RFC3339Nano))
	default:
		return quote(fmt.Sprint(val))
	}
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
