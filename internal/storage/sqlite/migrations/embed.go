package migrations

import "embed"

// FS holds the SQL migration files, applied in file name order.
//
//go:embed *.sql
var FS embed.FS
