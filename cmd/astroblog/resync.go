package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/feed"
)

func resyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resync",
		Short: "Rebuild RSS, Atom, JSON Feed and sitemap from the post index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()

			res, err := newFeeds(cfg).Resync()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Updated: %s\n", strings.Join(res.Updated, ", "))
			if res.Added > 0 {
				fmt.Fprintf(w, "Sitemap: %d new URLs\n", res.Added)
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(w, "Skipped: %s (%v)\n", s.Artifact, s.Err)
			}
			if !res.OK() {
				return fmt.Errorf("%d artifacts could not be rebuilt", len(res.Skipped))
			}
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every feed lists exactly the indexed posts, in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			return runVerify(cmd, cfg)
		},
	}
}

func runVerify(cmd *cobra.Command, cfg *config.Config) error {
	v, err := feed.Verify(cfg.Output.Dir, cfg.Site.BlogURL)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-14s %d posts\n", feed.IndexFile, len(v.Index))
	for _, name := range []string{feed.RSSFile, feed.RSSAliasFile, feed.AtomFile, feed.JSONFeedFile} {
		items, ok := v.Feeds[name]
		if !ok {
			fmt.Fprintf(w, "%-14s unreadable\n", name)
			continue
		}
		fmt.Fprintf(w, "%-14s %d items\n", name, len(items))
	}
	if !v.OK() {
		for _, p := range v.Problems {
			fmt.Fprintf(w, "  problem: %s\n", p)
		}
		return fmt.Errorf("feeds are inconsistent with the index")
	}
	fmt.Fprintln(w, "All feeds match the index.")
	return nil
}
