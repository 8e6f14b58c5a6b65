// Package migrations embeds the goose migrations that create the key-value
// tables.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
