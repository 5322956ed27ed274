package store

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

// OpenPostgres opens a bun handle over a Postgres connection string. The same
// conninfo works for realtime.NewPQListener, so a deployment configures one
// DSN for both reads and change notifications.
func OpenPostgres(conninfo string) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", conninfo)
	if err != nil {
		return nil, err
	}
	if err := sqldb.Ping(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return bun.NewDB(sqldb, pgdialect.New()), nil
}
