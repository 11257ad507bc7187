// Package migrations embeds the SQL schema so the binary can bootstrap its
// own database.
package migrations

import _ "embed"

//go:embed schema.sql
var Schema string
