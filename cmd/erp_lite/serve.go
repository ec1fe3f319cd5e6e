package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/erp_lite/internal/handlers"
	"github.com/SscSPs/erp_lite/internal/middleware"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, !skipMigrations)
			if err != nil {
				return err
			}
			defer a.Close()
			cfg, logger := a.Config, a.Logger

			if cfg.IsProduction {
				gin.SetMode(gin.ReleaseMode)
			}

			limiter, err := middleware.NewRateLimiter(cfg.RateLimit)
			if err != nil {
				return err
			}

			r := gin.New()
			// Global middleware (logging, recovery)
			r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
			r.Use(middleware.SecureHeaders(cfg.IsProduction))
			r.Use(cors.New(cors.Config{
				AllowOrigins:     cfg.CORSAllowedOrigins,
				AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
				AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
				ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			}))
			r.Use(middleware.RateLimit(limiter))

			if err := r.SetTrustedProxies(nil); err != nil {
				return err
			}

			handlers.RegisterRoutes(r, cfg, a.Services)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Server starting", slog.String("port", cfg.Port))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply migrations on startup")
	return cmd
}
