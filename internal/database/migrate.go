package database

import (
	"errors"
	"fmt"

	schema "quiz-seed/database"
	"quiz-seed/internal/config"
	"quiz-seed/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Migrator applies the embedded schema migrations. *migrate.Migrate
// satisfies it for sqlite and pgx; Oracle has its own runner.
//
// Up, Down and Steps return migrate.ErrNoChange when there is nothing to do.
type Migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (version uint, dirty bool, err error)
}

// Dialect names the migrations directory used for driver.
func Dialect(driver string) (string, error) {
	switch driver {
	case config.DriverSQLite:
		return "sqlite", nil
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverOracle:
		return "oracle", nil
	default:
		return "", fmt.Errorf("no migrations for driver %q", driver)
	}
}

func migrationSource(driver string) (source.Driver, error) {
	dialect, err := Dialect(driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(schema.Migrations, "migrations/"+dialect)
	if err != nil {
		return nil, fmt.Errorf("could not read %s migrations: %w", dialect, err)
	}
	return src, nil
}

// NewMigrator builds a migrator for db's driver. The sqlite and pgx
// migrators take ownership of db and close it when closed.
func NewMigrator(db *sqlx.DB) (Migrator, error) {
	src, err := migrationSource(db.DriverName())
	if err != nil {
		return nil, err
	}

	var instance migratedb.Driver
	switch db.DriverName() {
	case config.DriverSQLite:
		instance, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	case config.DriverPostgres:
		instance, err = migratepgx.WithInstance(db.DB, &migratepgx.Config{})
	default:
		return newOracleMigrator(db, src), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not create %s migration driver: %w", db.DriverName(), err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.DriverName(), instance)
	if err != nil {
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	return m, nil
}

// Migrate brings the schema up to date.
func Migrate(db *sqlx.DB) error {
	m, err := NewMigrator(db)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("could not read schema version: %w", err)
	}
	logger.Get().Info("Schema is up to date", zap.String("driver", db.DriverName()), zap.Uint("version", version))
	return nil
}
