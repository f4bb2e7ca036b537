// cmd/newsroom/main.go
//
// This is the entry point for the newsroom client.
//
// Usage:
//
//	newsroom            open the article list
//	newsroom <id>       open one article directly
//
// Flow:
// 1. Make sure .newsroom/ exists in the working directory
// 2. Load config, open the log file and the journey logbook
// 3. Build the API client, start the optional metrics endpoint, launch the TUI

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/config"
	"github.com/kingrea/newsroom/internal/logbook"
	"github.com/kingrea/newsroom/internal/logging"
	"github.com/kingrea/newsroom/internal/news"
	"github.com/kingrea/newsroom/internal/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	if err := config.InitNewsroomDir(cwd); err != nil {
		return fmt.Errorf("initialize .newsroom directory: %w", err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogsDir(), slog.LevelInfo)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logger.Close()

	journey, err := logbook.New(filepath.Join(cfg.LogsDir(), "journey.log"))
	if err != nil {
		return fmt.Errorf("open logbook: %w", err)
	}

	client, err := api.New(api.SettingsFromConfig(cfg), api.WithLogger(logger.Logger))
	if err != nil {
		return err
	}
	logger.Info("newsroom starting", "api", cfg.Project.API.BaseURL, "config", cfg.ProjectConfigPath())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	startMetricsServer(ctx, logger.Logger, cfg.Project.Metrics.Addr)

	opts := []tui.AppOption{tui.WithLogbook(journey)}
	if len(args) > 0 {
		opts = append(opts, tui.WithInitialArticle(news.ID(args[0])))
	}

	// Run blocks until the user quits
	p := tea.NewProgram(tui.NewApp(cfg, client, opts...), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	logger.Info("newsroom stopped")
	return nil
}
