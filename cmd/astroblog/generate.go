package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/pipeline"
	"github.com/astroaura/astroblog/internal/quality"
	"github.com/astroaura/astroblog/internal/schedule"
)

type genFlags struct {
	topic      string
	test       bool
	publishNow bool
}

func (g *genFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.topic, "topic", "", "Write about this topic instead of discovering trends")
	cmd.Flags().BoolVar(&g.test, "test", false, "Skip content providers and use the template body")
	cmd.Flags().BoolVar(&g.publishNow, "publish-now", false, "Publish immediately, ignoring the admission policy")
}

func generateCmd() *cobra.Command {
	var g genFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and publish one post",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runGenerate(cmd.Context(), cmd, cfg, g)
		},
	}
	g.register(cmd)
	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, cfg *config.Config, g genFlags) error {
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

	trigger := pipeline.TriggerManual
	if g.publishNow {
		trigger = pipeline.TriggerPublishNow
	} else {
		posts, err := runner.Feeds.Posts()
		if err != nil {
			return err
		}
		if !policyFor(cfg).ShouldGenerate(posts, time.Now()) {
			fmt.Fprintln(cmd.OutOrStdout(), "Skipping: a post was published recently and today's quota is used. Use --publish-now to override.")
			return nil
		}
	}

	out, err := runner.Run(ctx, pipeline.Options{Topic: g.topic, ForceFallback: g.test, Trigger: trigger})
	if err != nil {
		return err
	}
	printOutcome(cmd, out)
	return nil
}

func printOutcome(cmd *cobra.Command, out *pipeline.Outcome) {
	w := cmd.OutOrStdout()
	rec := out.Record
	fmt.Fprintf(w, "Published: %s\n", rec.Title)
	fmt.Fprintf(w, "  url:       %s\n", rec.URL)
	fmt.Fprintf(w, "  provider:  %s\n", rec.Provider)
	if out.Quality != nil {
		fmt.Fprintf(w, "  quality:   %.1f/100 (%s)\n", out.Quality.Score, quality.Grade(out.Quality.Score))
	}
	if out.Sync != nil {
		fmt.Fprintf(w, "  updated:   %v\n", out.Sync.Updated)
		for _, s := range out.Sync.Skipped {
			fmt.Fprintf(w, "  skipped:   %s (%v)\n", s.Artifact, s.Err)
		}
	}
}

func policyFor(cfg *config.Config) schedule.Policy {
	return schedule.Policy{MinInterval: cfg.Schedule.MinInterval, MaxPerDay: cfg.Schedule.MaxPerDay}
}
