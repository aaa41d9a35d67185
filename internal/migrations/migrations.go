// Package migrations embeds the PostgreSQL schema applied by pkg/database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
