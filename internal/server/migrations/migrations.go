// Package migrations embeds the SQL migrations applied with goose at
// server startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
