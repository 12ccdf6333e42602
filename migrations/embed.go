// Package migrations embeds the SQL schema migrations for every supported dialect.
package migrations

import "embed"

// FS holds one directory of goose migrations per dialect (postgres, sqlite).
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
