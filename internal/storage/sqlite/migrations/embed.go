package migrations

import "embed"

// FS contains the embedded schema migrations for the entity store.
//
//go:embed *.sql
var FS embed.FS
