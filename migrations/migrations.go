package migrations

import "embed"

// FS holds the golang-migrate sources, one directory per store driver.
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
