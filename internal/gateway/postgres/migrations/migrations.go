// Package migrations embeds the goose SQL migrations for the self-hosted
// schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
