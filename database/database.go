// Package database embeds the schema migrations, one directory per SQL
// dialect: migrations/sqlite, migrations/postgres and migrations/oracle.
package database

import "embed"

//go:embed migrations
var Migrations embed.FS
