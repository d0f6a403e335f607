package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/chetan079bca005-code/ck-protocol/internal/config"
	"github.com/chetan079bca005-code/ck-protocol/internal/observability"
	"github.com/chetan079bca005-code/ck-protocol/internal/server"
	"github.com/chetan079bca005-code/ck-protocol/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newRootCmd() *cobra.Command {
	var configFile string
	cmd := &cobra.Command{
		Use:           "ck-protocol",
		Short:         "Serve the CK // PROTOCOL portfolio.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}

			observability.InitializeLogger(cfg.Logger)
			defer observability.Sync()
			logger := observability.GetLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, cfg, logger); err != nil {
				logger.Error("Server exited", zap.Error(err))
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&configFile, "config", "c", os.Getenv("CKP_CONFIG"), "config file (defaults to $CKP_CONFIG)")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)

	var visits server.VisitStore
	if cfg.Store.Enabled {
		db, err := store.Open(ctx, cfg.Store.Path, logger)
		if err != nil {
			return err
		}
		defer db.Close()
		visits = db
		g.Go(func() error {
			return db.RunCleanup(ctx, cfg.Store.Retention, cfg.Store.CleanupInterval)
		})
		logger.Info("Visitor tracking enabled", zap.String("path", cfg.Store.Path))
	} else {
		logger.Warn("Visitor tracking disabled")
	}

	srv, err := server.New(cfg, logger, visits)
	if err != nil {
		return err
	}
	g.Go(func() error { return srv.Run(ctx) })
	return g.Wait()
}
