package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SQLiteDriverName is the database/sql driver every storefront SQLite pool
// is opened with. It is go-sqlite3 with a Unicode-aware lower() in place of
// the built-in one, which folds ASCII only.
const SQLiteDriverName = "sqlite3_storefront"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", unicodeLower, true)
		},
	})
	sqlx.BindDriver(SQLiteDriverName, sqlx.QUESTION)
}

// unicodeLower lowercases text values and passes everything else through,
// so lower(NULL) stays NULL like the built-in.
func unicodeLower(v any) any {
	switch s := v.(type) {
	case string:
		return cases.Lower(language.Und).String(s)
	case []byte:
		// go-sqlite3 hands NULL to interface arguments as a nil []byte.
		if s == nil {
			return nil
		}
		return cases.Lower(language.Und).String(string(s))
	default:
		return v
	}
}
