package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0xcro3dile/faqbot-go/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat widget and its API",
	Long:  "Loads the dataset in the background, watches local sources and serves HTTP until SIGINT or SIGTERM.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "override SERVER_ADDR")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup("")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if serveAddr != "" {
		cfg.App.ServerAddr = serveAddr
	}

	a, err := app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("close", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("faqbot starting",
		zap.String("env", cfg.App.Environment),
		zap.Strings("sources", cfg.Dataset.Sources),
		zap.String("prefs", cfg.Prefs.Backend))

	if err := a.Run(ctx); err != nil {
		return err
	}
	log.Info("faqbot stopped")
	return nil
}
