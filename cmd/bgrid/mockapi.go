package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bgrid/internal/handlers"
	"bgrid/internal/mockapi"
)

var mockapiCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "Run the reference collaborator that judges emails",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(handlers.RequestLogger(logger))
		r.Use(middleware.Recoverer)
		mockapi.NewHandler(logger.Named("mockapi")).RegisterRoutes(r)

		server := &http.Server{
			Addr:              cfg.MockAPIAddr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			logger.Info("mock collaborator listening", zap.String("url", "http://localhost"+cfg.MockAPIAddr+"/api/result"))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	mockapiCmd.Flags().String("mockapi-addr", "", "listen address (default :9000)")
}
