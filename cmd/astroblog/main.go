package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
)

func main() {
	var (
		gen      genFlags
		generate bool
		sched    bool
		stats    bool
		calendar int
	)

	root := &cobra.Command{
		Use:   "astroblog",
		Short: "astroblog: trend-driven astrology blog automation",
		Long: "Discovers trending topics, writes astrology posts about them and keeps the post index, " +
			"RSS, Atom, JSON Feed and sitemap consistent with each other.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()

			ctx := cmd.Context()
			switch {
			case stats:
				return runStats(cmd, cfg)
			case calendar > 0:
				return runCalendar(cmd, cfg, calendar)
			case sched:
				return runSchedule(ctx, cmd, cfg, gen.test)
			case generate, gen.publishNow, gen.topic != "", gen.test:
				return runGenerate(ctx, cmd, cfg, gen)
			default:
				return cmd.Help()
			}
		},
	}

	root.PersistentFlags().String("config", config.DefaultFile, "Path to the config file (searched upward when not set)")
	root.PersistentFlags().String("log-level", "", "Log level override (debug, info, warn, error)")

	gen.register(root)
	root.Flags().BoolVar(&generate, "generate", false, "Generate one post if the admission policy allows it")
	root.Flags().BoolVar(&sched, "schedule", false, "Run the scheduler until interrupted")
	root.Flags().BoolVar(&stats, "stats", false, "Show publishing statistics")
	root.Flags().IntVar(&calendar, "calendar", 0, "Write a content calendar for the next N days")

	root.AddCommand(
		generateCmd(),
		scheduleCmd(),
		calendarCmd(),
		statsCmd(),
		resyncCmd(),
		verifyCmd(),
		watchCmd(),
		serveCmd(),
		doctorCmd(),
		validateCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
