// Package migrations embeds the goose SQL migrations for the service schema.
// The barrage table migration depends on the configured table name and is
// registered in Go by database.Migrate.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
