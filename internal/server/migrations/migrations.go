// Package migrations embeds the goose migrations for every supported
// database backend, one directory per backend.
package migrations

import "embed"

//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var Migrations embed.FS
