package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bgrid/internal/grid"
	"bgrid/internal/handlers"
	"bgrid/internal/session"
	"bgrid/internal/submission"
)

//go:embed static/*
var embeddedStatic embed.FS

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8080, or :$PORT)")
	serveCmd.Flags().String("collaborator-url", "", "endpoint that judges submitted emails")
	serveCmd.Flags().Bool("count-blocked-moves", true, "count moves that hit the edge as steps")
}

func newRouter(store *session.Store, sub submission.Submitter) (chi.Router, error) {
	_ = mime.AddExtensionType(".css", "text/css")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	staticFS, err := fs.Sub(embeddedStatic, "static")
	if err != nil {
		return nil, err
	}
	r.Mount("/static", http.StripPrefix("/static", http.FileServer(http.FS(staticFS))))

	boardHandler := handlers.NewBoardHandler(store, sub, logger.Named("board"), cfg.RequestTimeout)
	boardHandler.RegisterRoutes(r)
	return r, nil
}

func runServe(ctx context.Context) error {
	policy := grid.Policy{CountBlocked: cfg.CountBlockedMoves}
	store := session.NewStore(policy, cfg.SessionTTL, logger.Named("sessions"))
	sub := submission.NewHTTPClient(cfg.CollaboratorURL, cfg.SubmitTimeout)

	r, err := newRouter(store, sub)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store.RunJanitor(gctx, cfg.JanitorInterval)
		return nil
	})
	g.Go(func() error {
		logger.Info("listening",
			zap.String("url", "http://localhost"+cfg.Addr),
			zap.String("collaborator", cfg.CollaboratorURL),
			zap.Bool("count_blocked_moves", cfg.CountBlockedMoves))
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
}
