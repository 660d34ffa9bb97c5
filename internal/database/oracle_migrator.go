package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strings"

	"quiz-seed/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	countVersionTableQuery  = `SELECT COUNT(*) FROM user_tables WHERE table_name = 'SCHEMA_MIGRATIONS'`
	createVersionTableQuery = `CREATE TABLE schema_migrations (version NUMBER(19) NOT NULL, dirty NUMBER(1) NOT NULL)`
	selectVersionQuery      = `SELECT version "version", dirty "dirty" FROM schema_migrations`
	deleteVersionQuery      = `DELETE FROM schema_migrations`
	insertVersionQuery      = `INSERT INTO schema_migrations (version, dirty) VALUES (?, ?)`
)

// oracleMigrator runs the embedded Oracle scripts statement by statement and
// keeps the same schema_migrations bookkeeping golang-migrate uses.
type oracleMigrator struct {
	db  *sqlx.DB
	src source.Driver
	ctx context.Context
}

func newOracleMigrator(db *sqlx.DB, src source.Driver) *oracleMigrator {
	return &oracleMigrator{db: db, src: src, ctx: context.Background()}
}

type versionRow struct {
	Version int64 `db:"version"`
	Dirty   int   `db:"dirty"`
}

func (m *oracleMigrator) ensureVersionTable() error {
	var n int
	if err := m.db.GetContext(m.ctx, &n, countVersionTableQuery); err != nil {
		return fmt.Errorf("could not inspect schema_migrations: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := m.db.ExecContext(m.ctx, createVersionTableQuery); err != nil {
		return fmt.Errorf("could not create schema_migrations: %w", err)
	}
	return nil
}

func (m *oracleMigrator) Version() (uint, bool, error) {
	if err := m.ensureVersionTable(); err != nil {
		return 0, false, err
	}
	var row versionRow
	err := m.db.GetContext(m.ctx, &row, selectVersionQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, migrate.ErrNilVersion
	}
	if err != nil {
		return 0, false, fmt.Errorf("could not read schema version: %w", err)
	}
	return uint(row.Version), row.Dirty == 1, nil
}

func (m *oracleMigrator) setVersion(version uint, present, dirty bool) error {
	if _, err := m.db.ExecContext(m.ctx, deleteVersionQuery); err != nil {
		return fmt.Errorf("could not clear schema version: %w", err)
	}
	if !present {
		return nil
	}
	flag := 0
	if dirty {
		flag = 1
	}
	if _, err := m.db.ExecContext(m.ctx, m.db.Rebind(insertVersionQuery), int64(version), flag); err != nil {
		return fmt.Errorf("could not record schema version %d: %w", version, err)
	}
	return nil
}

// versions lists every migration version in ascending order.
func (m *oracleMigrator) versions() ([]uint, error) {
	v, err := m.src.First()
	if err != nil {
		return nil, fmt.Errorf("could not list migrations: %w", err)
	}
	all := []uint{v}
	for {
		v, err = m.src.Next(v)
		if errors.Is(err, fs.ErrNotExist) {
			return all, nil
		}
		if err != nil {
			return nil, fmt.Errorf("could not list migrations: %w", err)
		}
		all = append(all, v)
	}
}

// state returns all versions and the index of the applied one, -1 if none.
func (m *oracleMigrator) state() ([]uint, int, error) {
	all, err := m.versions()
	if err != nil {
		return nil, 0, err
	}
	current, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return all, -1, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if dirty {
		return nil, 0, fmt.Errorf("schema is dirty at version %d, fix it by hand before migrating", current)
	}
	for i, v := range all {
		if v == current {
			return all, i, nil
		}
	}
	return nil, 0, fmt.Errorf("schema version %d has no migration file", current)
}

func (m *oracleMigrator) Up() error {
	return m.Steps(math.MaxInt)
}

func (m *oracleMigrator) Down() error {
	return m.Steps(-math.MaxInt)
}

func (m *oracleMigrator) Steps(n int) error {
	all, at, err := m.state()
	if err != nil {
		return err
	}

	applied := 0
	for ; n > 0 && at+1 < len(all); n-- {
		if err := m.apply(all[at+1], true); err != nil {
			return err
		}
		if err := m.setVersion(all[at+1], true, false); err != nil {
			return err
		}
		at++
		applied++
	}
	for ; n < 0 && at >= 0; n++ {
		if err := m.apply(all[at], false); err != nil {
			return err
		}
		if at == 0 {
			err = m.setVersion(0, false, false)
		} else {
			err = m.setVersion(all[at-1], true, false)
		}
		if err != nil {
			return err
		}
		at--
		applied++
	}

	if applied == 0 {
		return migrate.ErrNoChange
	}
	return nil
}

// apply marks version dirty and runs its up or down script.
func (m *oracleMigrator) apply(version uint, up bool) error {
	var (
		body       io.ReadCloser
		identifier string
		err        error
	)
	if up {
		body, identifier, err = m.src.ReadUp(version)
	} else {
		body, identifier, err = m.src.ReadDown(version)
	}
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}
	defer body.Close()

	script, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("could not read migration %d: %w", version, err)
	}

	if err := m.setVersion(version, true, true); err != nil {
		return err
	}
	for _, stmt := range splitStatements(string(script)) {
		if _, err := m.db.ExecContext(m.ctx, stmt); err != nil {
			return fmt.Errorf("could not execute migration %d_%s: %w", version, identifier, err)
		}
	}

	logger.Get().Info("Executed migration",
		zap.Uint("version", version),
		zap.String("name", identifier),
		zap.Bool("up", up))
	return nil
}

// splitStatements cuts a script on ';'. go-ora rejects a trailing terminator.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
