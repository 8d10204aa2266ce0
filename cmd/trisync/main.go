// Command trisync mirrors recent Strava activities into a Notion training
// log, linking each created entry to the planned workout it fulfills.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/swimbikerun/trisync/pkg/bootstrap"
	"github.com/swimbikerun/trisync/pkg/config"
	"github.com/swimbikerun/trisync/pkg/infrastructure/sentry"
	"github.com/swimbikerun/trisync/pkg/sync"
)

type runOptions struct {
	configPath string
	daysBack   int
	dryRun     bool
}

func newRootCommand() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:          "trisync",
		Short:        "Sync completed Strava activities into a Notion training log",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "config.yml", "path to the field-mapping table")
	cmd.Flags().IntVar(&opts.daysBack, "days-back", envInt("DAYS_BACK", 7), "how many days of activities to reconcile")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", envBool("DRY_RUN"), "log what would change without writing")

	return cmd
}

func run(ctx context.Context, opts *runOptions) error {
	logger := bootstrap.NewLogger("trisync")

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	if err := sentry.Init(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	}, logger); err != nil {
		logger.Warn("Continuing without error tracking", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	table, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	svc := bootstrap.NewService(ctx, cfg)

	orchestrator := &sync.Orchestrator{
		Source:         svc.Strava,
		Store:          svc.Notion,
		Table:          table,
		Logger:         logger,
		ActivitiesDBID: cfg.ActivitiesDBID,
		PlannedDBID:    cfg.PlannedDBID,
		SportsDBID:     cfg.SportsDBID,
	}

	stats, err := orchestrator.Run(ctx, time.Duration(opts.daysBack)*24*time.Hour, opts.dryRun)
	if err != nil {
		return err
	}
	if stats.Errors > 0 {
		return fmt.Errorf("sync finished with %d errors", stats.Errors)
	}
	return nil
}

func envInt(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(name string) bool {
	v, _ := strconv.ParseBool(os.Getenv(name))
	return v
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
