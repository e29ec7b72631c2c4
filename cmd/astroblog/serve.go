package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/preview"
	"github.com/astroaura/astroblog/internal/watch"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Rebuild feeds whenever the post index changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()

			w, err := newWatcher(cfg, newFeeds(cfg))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s. Press Ctrl+C to stop.\n", cfg.Output.Dir)
			return w.Run(cmd.Context())
		},
	}
}

func newWatcher(cfg *config.Config, feeds *feed.Synchronizer) (*watch.Watcher, error) {
	if err := feed.NewOSFileSystem().MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return watch.New(cfg.Output.Dir, watch.DefaultDebounce, feeds)
}

func serveCmd() *cobra.Command {
	var (
		addr      string
		withWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Preview the generated site locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, done, err := setup(cmd)
			if err != nil {
				return err
			}
			defer done()
			if addr == "" {
				addr = cfg.Preview.Addr
			}

			feeds := newFeeds(cfg)
			st := openStoreOptional(cfg)
			if st != nil {
				defer st.Close()
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			if withWatch {
				w, err := newWatcher(cfg, feeds)
				if err != nil {
					return err
				}
				go func() {
					if err := w.Run(ctx); err != nil {
						slog.Error("watcher stopped", "error", err)
					}
				}()
			}

			srv := &preview.Server{
				Root:    cfg.Output.SiteRoot(),
				BlogDir: cfg.Output.Dir,
				BlogURL: cfg.Site.BlogURL,
				Feeds:   feeds,
				Store:   st,
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", srv.Root, addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default preview.addr)")
	cmd.Flags().BoolVar(&withWatch, "watch", false, "Also rebuild feeds when the index changes")
	return cmd
}
