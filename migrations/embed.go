// Package migrations embeds the SQL schema for the goose runner.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
