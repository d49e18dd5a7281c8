package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/tastematch/internal/config"
	"github.com/kingrea/tastematch/internal/logging"
	"github.com/kingrea/tastematch/internal/scorebridge"
)

const sinkShutdownTimeout = 5 * time.Second

func serveCmd() *cobra.Command {
	var (
		host string
		port int
	)
	c := &cobra.Command{
		Use:   "serve",
		Short: "Run the local score sink",
		Long: "Serve accepts score reports on /players/score and keeps running totals on /scores. " +
			"Point report.endpoint at it to exercise reporting without the real backend.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := projectDir()
			if err != nil {
				return err
			}
			cfg, err := config.NewConfig(dir)
			if err != nil {
				return err
			}
			if host != "" {
				cfg.Project.Sink.Host = host
			}
			if port > 0 {
				cfg.Project.Sink.Port = port
			}
			logger, err := logging.New(cfg, flagDebug)
			if err != nil {
				return err
			}
			defer logger.Close()

			settings := scorebridge.SettingsFromConfig(cfg)
			// An explicit serve overrides sink.enabled.
			settings.Enabled = true

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			s, err := startSink(ctx, settings, logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Score sink listening on %s\n", s.server.BaseURL())
			return s.run(ctx, cmd.OutOrStdout())
		},
	}
	c.Flags().StringVar(&host, "host", "", "bind host (overrides sink.host)")
	c.Flags().IntVar(&port, "port", 0, "bind port (overrides sink.port)")
	return c
}

// sink is a running score server plus the feed `serve` prints from.
type sink struct {
	server *scorebridge.Server
	board  *scorebridge.Board
	scores scorebridge.Subscription
	log    *zap.Logger
}

func startSink(ctx context.Context, settings scorebridge.Settings, logger *logging.Logger) (*sink, error) {
	log := logger.Named("scorebridge")
	board := scorebridge.NewBoard(scorebridge.BoardWithLogger(logger))
	server := scorebridge.NewServer(settings,
		scorebridge.WithBoard(board),
		scorebridge.WithLogger(logger),
		scorebridge.WithProcessor(scorebridge.ScoreProcessorFunc(func(score scorebridge.Score) error {
			log.Info("score accepted",
				zap.String("score", string(score.Score)),
				zap.String("player_id", score.PlayerID),
				zap.String("receipt_id", score.ReceiptID))
			return nil
		})),
	)
	s := &sink{server: server, board: board, scores: board.Subscribe(), log: log}
	if err := server.Start(ctx); err != nil {
		s.scores.Close()
		return nil, err
	}
	return s, nil
}

// run prints accepted scores until ctx is cancelled, then drains the server.
func (s *sink) run(ctx context.Context, out io.Writer) error {
	defer s.scores.Close()
	for {
		select {
		case <-ctx.Done():
			return s.stop(out)
		case score, ok := <-s.scores.Scores:
			if !ok {
				return s.stop(out)
			}
			fmt.Fprintf(out, "%s  %s  %s\n",
				score.ServerTime.Format(time.RFC3339), score.Score, score.PlayerID)
		}
	}
}

func (s *sink) stop(out io.Writer) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), sinkShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown score sink: %w", err)
	}
	totals := s.board.Totals()
	s.log.Info("score sink stopped",
		zap.Int("received", s.board.Received()),
		zap.Any("totals", totals.Map()))
	fmt.Fprintf(out, "Stopped after %d scores\n", s.board.Received())
	return nil
}
