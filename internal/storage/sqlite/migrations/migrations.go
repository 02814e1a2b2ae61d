package migrations

import "embed"

// FS holds the goose SQL migrations for the sqlite backend
//
//go:embed *.sql
var FS embed.FS
