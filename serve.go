package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/muhammadolammi/resumebot/internal/bot"
	"github.com/muhammadolammi/resumebot/internal/config"
	"github.com/muhammadolammi/resumebot/internal/events"
	"github.com/muhammadolammi/resumebot/internal/logging"
	"github.com/muhammadolammi/resumebot/internal/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Connect to Discord and start handling resume commands",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := logging.New(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	m := metrics.New()

	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		amqpPublisher, err := events.Dial(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return fmt.Errorf("failed to connect to rabbitmq: %w", err)
		}
		publisher = amqpPublisher
		logger.Info("publishing submission updates", zap.String("exchange", cfg.RabbitMQExchange))
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close publisher", zap.Error(err))
		}
	}()

	app := bot.NewApp(cfg, logger, m, publisher)
	b, err := bot.NewBot(cfg.DiscordToken, app, bot.DefaultRegistry())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.MetricsAddr, m, logger)
		})
	}

	logger.Info("bot starting", zap.String("webhook_url", cfg.WebhookURL))
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("bot stopped")
	return nil
}
