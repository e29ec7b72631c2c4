package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/post"
	"github.com/astroaura/astroblog/internal/schedule"
)

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [days]",
		Short: "Plan topics for the next N days (default 30)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			days := 30
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n <= 0 {
					return fmt.Errorf("days must be a positive integer, got %q", args[0])
				}
				days = n
			}
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runCalendar(cmd, cfg, days)
		},
	}
}

func runCalendar(cmd *cobra.Command, cfg *config.Config, days int) error {
	entries := schedule.Calendar(time.Now(), days, cfg.Schedule.Topics, cfg.Schedule.Rotate, post.NewRand(cfg.Seed))

	// Mark topics the index already covers.
	if posts, err := newFeeds(cfg).Posts(); err == nil {
		for i := range entries {
			entries[i].Published = covered(posts, entries[i].Topic)
		}
	}

	path, err := schedule.WriteCalendar(cfg.Output.Dir, entries)
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), "DATE", "PUBLISHED", "TOPIC")
	for _, e := range entries {
		t.row(e.Date, strconv.FormatBool(e.Published), e.Topic)
	}
	if err := t.flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nWrote %d entries to %s\n", len(entries), path)
	return nil
}

func covered(posts []post.Record, topic string) bool {
	topic = strings.ToLower(topic)
	for _, p := range posts {
		if strings.Contains(strings.ToLower(p.Title), topic) {
			return true
		}
	}
	return false
}
