// Package migrations embeds the PostgreSQL schema migrations applied by goose
// when the server starts.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
