package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"quiz-seed/internal/config"
	"quiz-seed/internal/domain"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitUsage    = 2
	exitLockHeld = 3
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case domain.IsConfigurationError(err):
		return exitUsage
	case domain.IsLockHeldError(err):
		return exitLockHeld
	default:
		return exitFailure
	}
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	dataDir    string
	groups     []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "seed",
		Short:         "Upsert quiz categories, questions and users from seed files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default: ./config.yaml or ./config/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory of seed files (overrides seed.data_dir)")
	cmd.PersistentFlags().StringSliceVar(&opts.groups, "group", nil, "Only run batches tagged with this group, plus their dependencies (repeatable)")

	cmd.AddCommand(newRunCmd(opts), newPlanCmd(opts))
	return cmd
}

// load reads the configuration and applies the shared flags on top of it.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, domain.NewError(domain.ErrConfiguration, "failed to load configuration", err)
	}
	if o.dataDir != "" {
		cfg.Seed.DataDir = o.dataDir
	}
	if len(o.groups) > 0 {
		cfg.Seed.Groups = o.groups
	}
	return cfg, nil
}
