package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"joingate/internal/app"
	"joingate/internal/config"
	"joingate/internal/logger"
)

type modeFunc func(a *app.App, ctx context.Context) error

const (
	modeWebhook = "webhook"
	modePoll    = "poll"
)

// serveMode picks the transport for serve. In debug mode there is usually no
// public endpoint for the webhook, so updates come through long polling.
func serveMode(cfg *config.Config) (string, modeFunc) {
	if cfg.Debug {
		return modePoll, (*app.App).Poll
	}
	return modeWebhook, (*app.App).Serve
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "joingate",
		Short:         "Slot machine captcha for Telegram join requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.yaml")

	run := func(pick func(*config.Config) (string, modeFunc)) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel))

			a, err := app.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			name, mode := pick(cfg)
			log.Info("receiving updates", "mode", name, "debug", cfg.Debug)
			return mode(a, cmd.Context())
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Receive updates through the webhook (long polling with DEBUG)",
			RunE:  run(serveMode),
		},
		&cobra.Command{
			Use:   "poll",
			Short: "Receive updates through long polling",
			RunE: run(func(*config.Config) (string, modeFunc) {
				return modePoll, (*app.App).Poll
			}),
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Apply database migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				return app.Migrate(cmd.Context(), cfg, logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel)))
			},
		},
	)
	return cmd
}
