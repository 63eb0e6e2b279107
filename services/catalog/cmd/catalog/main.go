package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"locallibrary/internal/ratelimit"
	"locallibrary/internal/util"
	"locallibrary/pkg/store"
	"locallibrary/services/catalog/internal/app"
	"locallibrary/services/catalog/internal/config"
	"locallibrary/services/catalog/internal/server"
	"locallibrary/services/catalog/internal/view"
)

func main() {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := util.InitLogger(cfg.LogLevel)

	repo, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer closeStore()

	appCore, err := app.New(app.StoreConfig(repo))
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}
	views, err := view.New()
	if err != nil {
		log.Fatalf("failed to parse views: %v", err)
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("failed to parse trusted proxies: %v", err)
	}

	serverCfg := server.Config{
		App:            appCore,
		Views:          views,
		TrustedProxies: trusted,
	}
	if cfg.FormRateLimitPerMinute > 0 {
		limiter, err := ratelimit.NewRedisFixedWindowLimiter(cfg.RedisAddr, cfg.RedisPassword, ratelimit.DefaultPrefix, cfg.FormRateLimitPerMinute, time.Minute)
		if err != nil {
			log.Fatalf("failed to init form rate limiter: %v", err)
		}
		defer limiter.Close()
		serverCfg.Limiter = limiter
	}
	httpServer, err := server.New(serverCfg)
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatalf("failed to listen on %s: %v", addr, err)
	}
	slog.Info("catalog server listening", "addr", addr, "store", cfg.StoreDriver)
	if err := serve(ctx, srv, ln, 10*time.Second); err != nil {
		logger.Error("server error", "err", err)
	}
	slog.Info("catalog server stopped")
}

// serve runs srv on ln until ctx is done and returns only after in-flight
// requests have drained or grace has elapsed.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, grace time.Duration) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func openStore(cfg config.FileConfig) (store.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store; data is lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}
	gs, err := store.NewGormStore(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return gs, func() {
		if err := gs.Close(); err != nil {
			slog.Error("close store", "err", err)
		}
	}, nil
}
