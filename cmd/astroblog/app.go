package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/astroaura/astroblog/internal/config"
	"github.com/astroaura/astroblog/internal/feed"
	"github.com/astroaura/astroblog/internal/logger"
	"github.com/astroaura/astroblog/internal/store"
)

// setup loads the config named by --config, applies --log-level and starts
// logging. The returned func flushes and closes the log file.
func setup(cmd *cobra.Command) (*config.Config, func(), error) {
	path, _ := cmd.Flags().GetString("config")
	if !cmd.Flags().Changed("config") {
		path = config.FindFile(path)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	closer, err := logger.Init(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("config loaded", "path", path, "output", cfg.Output.Dir, "site_root", cfg.Output.SiteRoot())
	return cfg, func() { closer.Close() }, nil
}

func openStore(cfg *config.Config) (*store.Store, error) {
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("open run database %s: %w", cfg.Database.Path, err)
	}
	return st, nil
}

// openStoreOptional is for read paths that still work without history.
func openStoreOptional(cfg *config.Config) *store.Store {
	st, err := openStore(cfg)
	if err != nil {
		slog.Warn("run history unavailable", "error", err)
		return nil
	}
	return st
}

func newFeeds(cfg *config.Config) *feed.Synchronizer {
	return feed.New(feed.OptionsFromConfig(cfg))
}
