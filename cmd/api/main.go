package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/logger"
	"bookcatalog/internal/server"
	"bookcatalog/internal/storage"

	"go.uber.org/zap"
)

func main() {
	os.Exit(serve())
}

// serve runs the API until shutdown and returns the process exit code.
func serve() int {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("config error: %v", err)
		return 1
	}

	logr, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Printf("logger error: %v", err)
		return 1
	}
	defer logr.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Error("server stopped", zap.Error(err))
		return 1
	}
	logr.Info("server stopped")
	return 0
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	store, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	logr.Info("store ready", zap.String("driver", cfg.Store.Driver))

	seeded, err := store.SeedFromFile(ctx, cfg.Store.SeedFile)
	if err != nil {
		return err
	}
	if seeded > 0 {
		logr.Info("seeded books", zap.Int("count", seeded), zap.String("file", cfg.Store.SeedFile))
	}

	bookService := book.NewService(store.Books)
	bookHandler := book.NewHTTPHandler(bookService, logr)

	router := server.NewRouter(bookHandler, store)
	httpServer := server.New(cfg.Addr, cfg.HTTP, server.NewHandler(ctx, cfg.HTTP, router, logr))

	serveErr := make(chan error, 1)
	go func() {
		logr.Info("starting server",
			zap.String("addr", cfg.Addr),
			zap.Strings("allowed_origins", cfg.HTTP.AllowedOrigins),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
