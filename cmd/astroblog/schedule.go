package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/pipeline"
	"github.com/astroaura/astroblog/internal/schedule"
)

func scheduleCmd() *cobra.Command {
	var test bool
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the posting scheduler until interrupted",
		Long:  "Sleeps until each schedule.cron fire time and publishes when the admission policy allows it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runSchedule(cmd.Context(), cmd, cfg, test)
		},
	}
	cmd.Flags().BoolVar(&test, "test", false, "Skip content providers and use the template body")
	return cmd
}

func runSchedule(ctx context.Context, cmd *cobra.Command, cfg *config.Config, test bool) error {
	cron, err := schedule.ParseCron(cfg.Schedule.Cron)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	runner, closeTrends, err := pipeline.FromConfig(cfg, st)
	if err != nil {
		return err
	}
	defer closeTrends()

	sched := &schedule.Runner{
		Cron:   cron,
		Policy: policyFor(cfg),
		Posts:  runner.Feeds.Posts,
		Run: func(ctx context.Context) error {
			out, err := runner.Run(ctx, pipeline.Options{ForceFallback: test, Trigger: pipeline.TriggerSchedule})
			if err != nil {
				return err
			}
			printOutcome(cmd, out)
			return nil
		},
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Scheduler started (%s). Press Ctrl+C to stop.\n", cron)
	err = sched.Start(ctx)
	if errors.Is(err, context.Canceled) {
		slog.Info("scheduler stopped")
		return nil
	}
	return err
}
