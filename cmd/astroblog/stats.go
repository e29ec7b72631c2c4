package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
)

func statsCmd() *cobra.Command {
	var runs int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show publishing statistics and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			if err := runStats(cmd, cfg); err != nil {
				return err
			}
			if runs > 0 {
				return printRuns(cmd, cfg, runs)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&runs, "runs", 0, "Also list the N most recent runs")
	return cmd
}

func runStats(cmd *cobra.Command, cfg *config.Config) error {
	w := cmd.OutOrStdout()

	posts, err := newFeeds(cfg).Posts()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Index:")
	fmt.Fprintf(w, "  %-18s %d (cap %d)\n", "posts", len(posts), cfg.Index.Cap)
	if len(posts) > 0 {
		fmt.Fprintf(w, "  %-18s %s (%s)\n", "latest", posts[0].Title, posts[0].Date.Format(time.DateOnly))
	}
	categories := make(map[string]int)
	for _, p := range posts {
		categories[p.Category]++
	}
	fmt.Fprintln(w)

	t := newTable(w, "CATEGORY", "POSTS")
	for _, k := range sortedKeys(categories) {
		name := k
		if name == "" {
			name = "(none)"
		}
		t.row(name, strconv.Itoa(categories[k]))
	}
	if err := t.flush(); err != nil {
		return err
	}

	st := openStoreOptional(cfg)
	if st == nil {
		return nil
	}
	defer st.Close()
	s, err := st.Stats(time.Now())
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Runs:")
	fmt.Fprintf(w, "  %-18s %d\n", "total", s.Runs)
	fmt.Fprintf(w, "  %-18s %d\n", "published", s.Published)
	fmt.Fprintf(w, "  %-18s %d\n", "this month", s.PublishedMonth)
	fmt.Fprintf(w, "  %-18s %d\n", "failures", s.Failures)
	if s.LastPublished != nil {
		fmt.Fprintf(w, "  %-18s %s\n", "last published", s.LastPublished.Local().Format("2006-01-02 15:04"))
	}
	for _, p := range sortedKeys(s.ByProvider) {
		fmt.Fprintf(w, "  %-18s %d\n", "provider "+p, s.ByProvider[p])
	}
	return nil
}

func printRuns(cmd *cobra.Command, cfg *config.Config, n int) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	runs, err := st.ListRuns(n)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout())
	t := newTable(cmd.OutOrStdout(), "STARTED", "TRIGGER", "STATUS", "PROVIDER", "TITLE")
	for _, r := range runs {
		title := r.Title
		if r.Error != "" {
			title = r.Error
		}
		t.row(r.StartedAt.Local().Format("2006-01-02 15:04"), r.Trigger, r.Status, r.Provider, title)
	}
	return t.flush()
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
