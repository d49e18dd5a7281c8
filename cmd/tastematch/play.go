package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/logging"
	"github.com/kingrea/tastematch/internal/tui"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Take the quiz in the terminal (default)",
		RunE:  runPlay,
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	dir, err := projectDir()
	if err != nil {
		return err
	}
	if err := initProject(dir); err != nil {
		return err
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg, flagDebug)
	if err != nil {
		return err
	}
	defer logger.Close()

	app, err := tui.NewApp(cfg, tui.WithLogger(logger.Named("tui")))
	if err != nil {
		return err
	}
	defer app.Close()

	logger.Zap().Info("starting quiz",
		zap.String("project", dir),
		zap.String("report_endpoint", cfg.ReportEndpoint()))

	// Run blocks until the user quits
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func initProject(dir string) error {
	if err := config.InitDir(dir); err != nil {
		return fmt.Errorf("initialize %s directory: %w", config.Dir, err)
	}
	return nil
}
