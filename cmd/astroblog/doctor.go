package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/content"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/notify"
	"github.com/astroaura/astroblog/internal/schedule"
)

func doctorCmd() *cobra.Command {
	var testNotify bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check provider keys, output paths and optional services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			w := cmd.OutOrStdout()

			fmt.Fprintln(w, "astroblog doctor")
			fmt.Fprintln(w)

			// API keys
			fmt.Fprintln(w, "Content providers (priority order):")
			for _, p := range cfg.Providers.Priority {
				set := ""
				for _, k := range content.EnvKeys(p) {
					if os.Getenv(k) != "" {
						set = k
						break
					}
				}
				if set != "" {
					fmt.Fprintf(w, "  %-12s %-20s set\n", p, set)
				} else {
					fmt.Fprintf(w, "  %-12s %-20s not set\n", p, content.EnvKeys(p)[0])
				}
			}
			fmt.Fprintln(w, "  (posts fall back to the built-in template when no provider answers)")
			fmt.Fprintln(w)

			// Output
			fmt.Fprintln(w, "Output:")
			fmt.Fprintf(w, "  %-12s %s\n", "blog dir", cfg.Output.Dir)
			fmt.Fprintf(w, "  %-12s %s\n", "site root", cfg.Output.SiteRoot())
			if posts, err := newFeeds(cfg).Posts(); err != nil {
				fmt.Fprintf(w, "  %-12s unreadable: %v\n", "index", err)
			} else {
				fmt.Fprintf(w, "  %-12s %d posts (cap %d)\n", "index", len(posts), cfg.Index.Cap)
			}
			if v, err := feed.Verify(cfg.Output.Dir, cfg.Site.BlogURL); err == nil {
				if v.OK() {
					fmt.Fprintf(w, "  %-12s consistent\n", "feeds")
				} else {
					fmt.Fprintf(w, "  %-12s %d problems (run astroblog resync)\n", "feeds", len(v.Problems))
				}
			}
			fmt.Fprintln(w)

			// Services
			fmt.Fprintln(w, "Services:")
			if st, err := openStore(cfg); err != nil {
				fmt.Fprintf(w, "  %-12s %v\n", "database", err)
			} else {
				st.Close()
				fmt.Fprintf(w, "  %-12s ok (%s)\n", "database", cfg.Database.Path)
			}
			if cfg.Trends.RedisAddr != "" {
				if redisReachable(cmd.Context(), cfg.Trends.RedisAddr) {
					fmt.Fprintf(w, "  %-12s reachable at %s\n", "redis", cfg.Trends.RedisAddr)
				} else {
					fmt.Fprintf(w, "  %-12s not reachable at %s\n", "redis", cfg.Trends.RedisAddr)
				}
			} else {
				fmt.Fprintf(w, "  %-12s in-memory trend cache\n", "redis")
			}
			n := notify.New(cfg.Notify.Topic, cfg.Notify.Token, cfg.Notify.Events)
			if n == nil {
				fmt.Fprintf(w, "  %-12s disabled\n", "ntfy")
			} else {
				fmt.Fprintf(w, "  %-12s %s (events: %s)\n", "ntfy", cfg.Notify.Topic, cfg.Notify.Events)
				if testNotify {
					if err := n.SendTest(cmd.Context()); err != nil {
						fmt.Fprintf(w, "  %-12s test failed: %v\n", "", err)
					} else {
						fmt.Fprintf(w, "  %-12s test sent\n", "")
					}
				}
			}
			fmt.Fprintln(w)

			// Schedule
			fmt.Fprintln(w, "Schedule:")
			cron, err := schedule.ParseCron(cfg.Schedule.Cron)
			if err != nil {
				fmt.Fprintf(w, "  %-12s invalid: %v\n", "cron", err)
			} else {
				fmt.Fprintf(w, "  %-12s %s (next %s)\n", "cron", cron, cron.Next(time.Now()).Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(w, "  %-12s every %s, at most %d per day\n", "admission", cfg.Schedule.MinInterval, cfg.Schedule.MaxPerDay)
			return nil
		},
	}
	cmd.Flags().BoolVar(&testNotify, "notify", false, "Send a test notification")
	return cmd
}

func redisReachable(ctx context.Context, addr string) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	return c.Ping(ctx).Err() == nil
}
