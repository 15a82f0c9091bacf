package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/billyprice1/natprobe/internal/config"
	"github.com/billyprice1/natprobe/internal/logger"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "re-run the configured scenario(s) every time the config file changes",
		Long: `watch loads the config file once, runs the configured scenario(s), and
then blocks: each time the config file is rewritten on disk (target,
scenario selection, or log settings), it reloads and runs again. Exits
on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchAndRun()
		},
	}
}

// watchAndRun is the daemon mode SPEC_FULL.md §A describes: a long-running
// process that re-probes whenever the on-disk target/scenario config
// changes, built on the teacher's fsnotify-backed internal/config.Watcher.
func watchAndRun() error {
	path := cfgFile
	if path == "" {
		path = "./configs/config.yaml"
	}

	w, err := config.NewWatcher(path)
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer w.Stop()

	w.OnChange(func(old, cur *config.Config) error {
		if _, err := logger.Init(cur.Log); err != nil {
			return err
		}
		logger.Info("config changed, re-running scenarios")
		if err := runScenarios(cur); err != nil {
			logger.WithField("err", err.Error()).Warn("scenario run failed after reload")
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("start config watcher: %w", err)
	}

	cfg := w.Config()
	if _, err := logger.Init(cfg.Log); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if err := runScenarios(cfg); err != nil {
		logger.WithField("err", err.Error()).Warn("initial scenario run failed")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")
	return nil
}
