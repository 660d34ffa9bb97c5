package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"quiz-seed/internal/config"
	"quiz-seed/internal/database"
	"quiz-seed/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply the quiz schema migrations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ./config.yaml or ./config/config.yaml)")

	withMigrator := func(fn func(m database.Migrator, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			db, err := connect(cmd, configPath)
			if err != nil {
				return err
			}
			defer db.Close()
			m, err := database.NewMigrator(db)
			if err != nil {
				return err
			}
			return fn(m, cmd.OutOrStdout())
		}
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE:  withMigrator(runUp),
	}

	var all bool
	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations (one step by default)",
		RunE: withMigrator(func(m database.Migrator, out io.Writer) error {
			return runDown(m, out, all, steps)
		}),
	}
	down.Flags().BoolVar(&all, "all", false, "Roll back every migration")
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	version := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE:  withMigrator(runVersion),
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func connect(cmd *cobra.Command, configPath string) (*sqlx.DB, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return database.Open(cmd.Context(), cfg.DB.Driver, cfg.GetDSN())
}

func runUp(m database.Migrator, out io.Writer) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "No pending migrations.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	fmt.Fprintln(out, "Migrations applied successfully!")
	return nil
}

func runDown(m database.Migrator, out io.Writer, all bool, steps int) error {
	if all {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		fmt.Fprintln(out, "Successfully rolled back all migrations")
		return nil
	}
	if steps < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", steps)
	}
	err := m.Steps(-steps)
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "No migrations to roll back.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to roll back migrations: %w", err)
	}
	fmt.Fprintf(out, "Successfully rolled back %d migration(s)\n", steps)
	return nil
}

func runVersion(m database.Migrator, out io.Writer) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "version: none")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "version: %d dirty: %t\n", version, dirty)
	return nil
}
