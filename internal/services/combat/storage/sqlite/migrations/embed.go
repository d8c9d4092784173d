// Package migrations embeds the combat SQLite schema.
package migrations

import "embed"

// FS holds the combat migrations under the "combat" root.
//
//go:embed combat/*.sql
var FS embed.FS
