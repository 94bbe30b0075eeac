package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/inamate/svgedit/internal/auth"
	"github.com/inamate/svgedit/internal/config"
	"github.com/inamate/svgedit/internal/db"
	"github.com/inamate/svgedit/internal/document"
	mw "github.com/inamate/svgedit/internal/middleware"
	"github.com/inamate/svgedit/internal/session"
)

// memoryDatabase as DATABASE_URL runs the server without Postgres.
const memoryDatabase = "memory"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	store, closeStore, err := openStore(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeStore()

	authService := auth.NewService(cfg.JWTSecret)
	authHandler := auth.NewHandler(authService, cfg.AllowAnonymous)
	documentHandler := document.NewHandler(store)

	hub := session.NewHub(store, session.WithEditorOptions(cfg.Editor.Options()...))
	wsHandler := session.NewHandler(hub, authService, cfg.AllowAnonymous, cfg.OriginHosts())

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)
	documentHandler.Routes(api)

	// WebSocket endpoint, authenticated by query token
	r.Handle("/ws/documents/{documentId}", wsHandler)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		hub.Run(gctx, session.DefaultAutosaveInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Stop the hub first so every open session saves its edits.
		slog.Info("saving open documents")
		if err := hub.Stop(shutdownCtx); err != nil {
			slog.Error("stop hub", "error", err)
		}
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func openStore(ctx context.Context, databaseURL string) (document.Store, func(), error) {
	if databaseURL == memoryDatabase {
		slog.Warn("using in-memory document store; documents are lost on exit")
		return document.NewMemoryStore(), func() {}, nil
	}

	pool, err := db.NewPool(ctx, databaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("migrate database: %w", err)
	}
	return db.New(pool), pool.Close, nil
}
