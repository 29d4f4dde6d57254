package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nurpe/contracts-panel/internal/auth"
	"github.com/nurpe/contracts-panel/internal/cache"
	"github.com/nurpe/contracts-panel/internal/config"
	"github.com/nurpe/contracts-panel/internal/consistency"
	"github.com/nurpe/contracts-panel/internal/db"
	"github.com/nurpe/contracts-panel/internal/excel"
	httphandler "github.com/nurpe/contracts-panel/internal/http"
	"github.com/nurpe/contracts-panel/internal/http/middleware"
	"github.com/nurpe/contracts-panel/internal/logger"
	"github.com/nurpe/contracts-panel/internal/pdf"
	"github.com/nurpe/contracts-panel/internal/repository"
	"github.com/nurpe/contracts-panel/internal/service"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	var opts []service.Option
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to connect redis: %w", err)
		}
		defer client.Close()
		opts = append(opts, service.WithPageCache(cache.NewRedis(client, cfg.Table.CacheTTL, log)))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("using shared page cache")
	}

	contractRepo := repository.NewContractRepository(database)
	checker := consistency.NewChecker(log.With().Str("component", "consistency").Logger())
	contractService := service.NewContractService(
		contractRepo,
		checker,
		excel.NewGenerator(),
		pdf.NewGenerator(),
		cfg,
		log.With().Str("component", "contracts").Logger(),
		opts...,
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(contractService, tokenParser, log)
	router := httphandler.NewRouter(
		handler,
		tokenParser,
		cfg.Environment,
		cfg.HTTP.CORSOrigins,
		log,
		middleware.RateLimit(cfg.HTTP.RateLimit, cfg.HTTP.RateBurst, log),
	)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contracts panel")

	srv := &http.Server{Addr: addr, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		log.Error().Err(err).Msg("server stopped")
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
