package database

import (
	"context"
	"fmt"
	"time"

	"quiz-seed/internal/config"
	"quiz-seed/internal/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	"github.com/jmoiron/sqlx"
	_ "github.com/sijms/go-ora/v2" // registers "oracle"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // registers "sqlite"
)

func init() {
	// go-ora binds positionally, so :arg1, :arg2 ... work like :1, :2.
	sqlx.BindDriver(config.DriverOracle, sqlx.NAMED)
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

const connectTimeout = 10 * time.Second

// Open connects with the named driver and pings the server.
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(connectCtx, driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}

	if driver == config.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}

	logger.Get().Info("Connected to database", zap.String("driver", driver))
	return db, nil
}
