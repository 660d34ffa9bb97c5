package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"quiz-seed/internal/logger"
	"quiz-seed/internal/repository/memory"
	"quiz-seed/internal/seed"
	"quiz-seed/internal/seedfile"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
)

type planOptions struct {
	dryRun bool
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	var opts planOptions
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the batch order without touching the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Also run every batch against an in-memory store")
	return cmd
}

func runPlan(ctx context.Context, out io.Writer, root *rootOptions, opts planOptions) error {
	cfg, err := root.load()
	if err != nil {
		return err
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	batches, err := seedfile.NewLoader(logger.Named("seedfile")).LoadDir(ctx, cfg.Seed.DataDir)
	if err != nil {
		return err
	}
	planned, err := seed.Plan(batches, cfg.Seed.Groups)
	if err != nil {
		return err
	}
	if err := writePlan(out, planned); err != nil {
		return err
	}
	if !opts.dryRun {
		return nil
	}

	runnerOpts, err := runnerOptions(cfg)
	if err != nil {
		return err
	}
	// hashes are thrown away with the store
	runnerOpts = append(runnerOpts, seed.WithBcryptCost(bcrypt.MinCost))

	store := memory.NewStore()
	report, runErr := seed.NewRunner(store, logger.Named("seed"), runnerOpts...).Run(ctx, batches, cfg.Seed.Groups...)
	if report != nil {
		fmt.Fprintln(out)
		if err := report.Write(out); err != nil {
			return err
		}
	}
	writeStoreCounts(out, store.Counts())
	return runErr
}

func writePlan(out io.Writer, planned []seed.Batch) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tBATCH\tDEPENDS ON\tGROUPS")
	for i, b := range planned {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, b.Name, orDash(b.DependsOn), orDash(b.Groups))
	}
	return tw.Flush()
}

func writeStoreCounts(out io.Writer, counts map[string]int) {
	kinds := make([]string, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	parts := make([]string, len(kinds))
	for i, kind := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", kind, counts[kind])
	}
	fmt.Fprintf(out, "\nwould store: %s\n", strings.Join(parts, " "))
}

func orDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ",")
}
