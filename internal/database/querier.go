package database

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type Queries struct {
	db       DBTX
	barrages string
}

// New binds queries to db. barrageTable may be schema-qualified
// ("live.douyu_barrage"); it is quoted before being spliced into SQL.
func New(db DBTX, barrageTable string) *Queries {
	return &Queries{
		db:       db,
		barrages: quoteTable(barrageTable),
	}
}

func quoteTable(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
