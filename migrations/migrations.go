package migrations

import "embed"

// FS holds the goose migrations of the trades schema.
//
//go:embed *.sql
var FS embed.FS
