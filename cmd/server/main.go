package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"dashlink/internal/config"
	"dashlink/internal/hub"
	"dashlink/internal/logger"
	"dashlink/internal/tilestore"
	"dashlink/internal/web"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting dashlink relay",
		zap.Int("port", cfg.Port),
		zap.String("static_dir", cfg.StaticDir),
	)

	tileCache, err := tilestore.NewCache(cfg.CacheType, cfg.CacheLRUTiles, cfg.CacheTTL, log)
	if err != nil {
		log.Fatal("Failed to initialize tile cache", zap.Error(err))
	}
	store := tilestore.NewStore(tileCache, cfg.PendingTimeout, log)
	defer store.Close()

	relay := hub.New(store, cfg.SendBuffer, cfg.MaxMessageSize, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go relay.Run(ctx)

	handlers := web.New(cfg, log, relay)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", handlers.HandleWS)
	mux.HandleFunc("/healthz", handlers.HandleHealthz)
	mux.HandleFunc("/", handlers.HandleStatic)

	handler := handlers.CORSMiddleware(handlers.RequestLoggingMiddleware(mux))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.Int("port", cfg.Port))

	<-ctx.Done()
	stop()

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}
