// Package inventory embeds the goose migrations for the inventory bounded
// context. They are applied by cmd/migrate and by the integration tests.
package inventory

import "embed"

//go:embed *.sql
var FS embed.FS
