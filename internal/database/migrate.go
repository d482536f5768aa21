package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"barrage-board/internal/database/migrations"
	"barrage-board/internal/logging"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const barrageMigrationVersion = 2

// runMigrations is swapped out in tests.
var runMigrations = func(ctx context.Context, p *goose.Provider) ([]*goose.MigrationResult, error) {
	return p.Up(ctx)
}

// Migrate applies the embedded SQL migrations plus the barrage table
// migration for barrageTable. goose needs a database/sql handle, so it opens
// its own short-lived connection through the pgx stdlib driver.
func Migrate(ctx context.Context, connString, barrageTable string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("opening migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS,
		goose.WithGoMigrations(barrageMigration(barrageTable)),
	)
	if err != nil {
		return fmt.Errorf("preparing migrations: %w", err)
	}

	results, err := runMigrations(ctx, provider)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	for _, r := range results {
		logging.Info().
			Str("component", "migrate").
			Int64("version", r.Source.Version).
			Str("source", r.Source.Path).
			Dur("duration", r.Duration).
			Msg("applied migration")
	}
	return nil
}

// barrageMigration creates the barrage table when the collector has not done
// so yet and adds the indexes the listing and ranking queries rely on. Down
// only drops the indexes; the table belongs to the collector.
func barrageMigration(table string) *goose.Migration {
	parts := strings.Split(table, ".")
	schema, base := parts[:len(parts)-1:len(parts)-1], parts[len(parts)-1]
	quoted := quoteTable(table)

	index := func(suffix string) (name, qualified string) {
		name = base + suffix
		return pgx.Identifier{name}.Sanitize(), pgx.Identifier(append(schema, name)).Sanitize()
	}
	timeIdx, timeIdxQualified := index("_time_idx")
	userIdx, userIdxQualified := index("_userid_time_idx")

	up := []string{
		`CREATE TABLE IF NOT EXISTS ` + quoted + ` (
			id       SERIAL PRIMARY KEY,
			userid   VARCHAR(20) NOT NULL,
			nickname VARCHAR(100) NOT NULL,
			time     TIMESTAMPTZ NOT NULL,
			chatmsg  JSONB NOT NULL DEFAULT '{}'::jsonb
		)`,
		`CREATE INDEX IF NOT EXISTS ` + timeIdx + ` ON ` + quoted + ` (time)`,
		`CREATE INDEX IF NOT EXISTS ` + userIdx + ` ON ` + quoted + ` (userid, time DESC)`,
	}
	down := []string{
		`DROP INDEX IF EXISTS ` + userIdxQualified,
		`DROP INDEX IF EXISTS ` + timeIdxQualified,
	}

	return goose.NewGoMigration(barrageMigrationVersion,
		&goose.GoFunc{RunTx: execAll(up)},
		&goose.GoFunc{RunTx: execAll(down)},
	)
}

func execAll(stmts []string) func(context.Context, *sql.Tx) error {
	return func(ctx context.Context, tx *sql.Tx) error {
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	}
}
