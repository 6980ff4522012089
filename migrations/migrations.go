// Package migrations embeds the SQL schema migrations shared by the
// server and the standalone migrator.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
