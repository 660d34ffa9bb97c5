package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"quiz-seed/internal/adapter"
	"quiz-seed/internal/cache"
	"quiz-seed/internal/config"
	"quiz-seed/internal/database"
	"quiz-seed/internal/domain"
	"quiz-seed/internal/logger"
	"quiz-seed/internal/metrics"
	"quiz-seed/internal/repository"
	"quiz-seed/internal/seed"
	"quiz-seed/internal/seedfile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runOptions struct {
	permissive bool
	policies   []string
}

func newRunCmd(root *rootOptions) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the seed batches against the configured database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.permissive, "permissive", false, "Skip invalid records instead of failing the batch")
	cmd.Flags().StringArrayVar(&opts.policies, "policy", nil, "Upsert policy per kind, e.g. question=create_only (repeatable)")
	return cmd
}

func runSeed(ctx context.Context, out io.Writer, root *rootOptions, opts runOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if opts.permissive {
		cfg.Seed.Mode = string(seed.Permissive)
	}
	if err := applyPolicyFlags(cfg.Seed.Policies, opts.policies); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return domain.NewError(domain.ErrConfiguration, "invalid configuration", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Named("seed")

	runnerOpts, err := runnerOptions(cfg)
	if err != nil {
		return err
	}

	batches, err := seedfile.NewLoader(logger.Named("seedfile")).LoadDir(ctx, cfg.Seed.DataDir)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		return domain.NewPersistenceError("failed to open database", err)
	}
	defer db.Close()

	recorder := metrics.NewRecorder()
	runnerOpts = append(runnerOpts, seed.WithObserver(recorder))

	if cfg.Redis.Address != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer client.Close()
		key := cfg.Seed.LockKey
		if key == "" {
			key = cache.RunLockKey(cfg.DB.Target())
		}
		runnerOpts = append(runnerOpts, seed.WithLock(adapter.NewRedisRunLock(client, key, cfg.Seed.LockTTL)))
		log.Info("Using Redis run lock", zap.String("key", key), zap.Duration("ttl", cfg.Seed.LockTTL))
	}

	log.Info("Seeding database",
		zap.String("target", cfg.DB.Target()),
		zap.String("data_dir", cfg.Seed.DataDir),
		zap.Int("batches", len(batches)))

	report, runErr := seed.NewRunner(repository.NewSQLStore(db), log, runnerOpts...).Run(ctx, batches, cfg.Seed.Groups...)
	if report != nil {
		if err := report.Write(out); err != nil {
			log.Warn("Failed to write report", zap.Error(err))
		}
	}

	if cfg.Metrics.PushgatewayURL != "" {
		if err := recorder.Push(context.WithoutCancel(ctx), cfg.Metrics.PushgatewayURL, cfg.Metrics.Job); err != nil {
			log.Warn("Failed to push metrics", zap.Error(err))
		}
	}
	return runErr
}

// runnerOptions converts the seed section of cfg into runner options.
func runnerOptions(cfg *config.Config) ([]seed.Option, error) {
	policies := seed.Policies{}
	for kind, raw := range cfg.Seed.Policies {
		policy, err := seed.ParsePolicy(raw)
		if err != nil {
			return nil, err
		}
		policies[domain.EntityKind(kind)] = policy
	}
	mode, err := seed.ParseValidationMode(cfg.Seed.Mode)
	if err != nil {
		return nil, err
	}
	opts := []seed.Option{seed.WithPolicies(policies), seed.WithValidationMode(mode)}
	if cfg.Seed.BcryptCost > 0 {
		opts = append(opts, seed.WithBcryptCost(cfg.Seed.BcryptCost))
	}
	return opts, nil
}

// applyPolicyFlags merges kind=policy flag values into policies.
func applyPolicyFlags(policies map[string]string, flags []string) error {
	for _, f := range flags {
		kind, policy, ok := strings.Cut(f, "=")
		kind = strings.ToLower(strings.TrimSpace(kind))
		policy = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(policy)), "-", "_")
		if !ok || kind == "" || policy == "" {
			return domain.NewConfigurationError(fmt.Sprintf("--policy %q: want kind=policy", f))
		}
		policies[kind] = policy
	}
	return nil
}
