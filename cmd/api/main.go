package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"serveur/internal/app"
	"serveur/internal/chat"
	"serveur/internal/config"
	"serveur/internal/db"
	"serveur/internal/logger"
	"serveur/internal/menu"
	"serveur/internal/middleware"
	"serveur/internal/router"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func run() error {
	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		Production: cfg.Production(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ───────────────────────── DB ─────────────────────────
	pool, err := db.ConnectPostgres(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.InitSchema(ctx, pool, log); err != nil {
		return err
	}

	// ───────────────────────── PIPELINE ─────────────────────────
	a, err := app.Build(ctx, cfg, menu.NewPostgresRepository(pool), log)
	if err != nil {
		return err
	}

	assistant := chat.NewAssistant(a.LLM, cfg.ChatHistoryWindow, log.Named("chat"))
	chatService := chat.NewService(a.Menus, assistant, chat.NewPostgresRepository(pool), cfg.ConversationCap, log.Named("chat"))

	// ───────────────────────── HTTP ─────────────────────────
	handler := router.NewRouter(router.Deps{
		Menu: menu.NewHandler(a.Menus, menu.HandlerConfig{
			BaseURL:     cfg.BaseURL,
			FrontendURL: cfg.FrontendURL,
			Debug:       cfg.Debug(),
		}, log.Named("http")),
		Chat:        chat.NewHandler(chatService, cfg.Debug(), log.Named("http")),
		ChatLimiter: middleware.NewIPRateLimiter(cfg.ChatRatePerMinute),
		CORSOrigins: cfg.CORSOrigins,
		StaticDir:   a.StaticDir,
		Log:         log.Named("http"),
	})

	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("🚀 API running", "addr", cfg.Address, "base_url", cfg.BaseURL, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
