package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"manifesto-reader/internal/config"
	"manifesto-reader/internal/handler"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	janitorInterval = time.Minute
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	container, err := config.NewContainer()
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}
	appLogger := container.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.DocumentService.Load(ctx); err != nil {
		appLogger.Error("Failed to load document", err)
		os.Exit(1)
	}

	// Handlers
	documentHandler := handler.NewDocumentHandler(container.DocumentService, appLogger)
	sessionHandler := handler.NewSessionHandler(container.SessionService, appLogger)

	// Router
	router := handler.NewRouter(
		documentHandler,
		sessionHandler,
		appLogger,
		container.Config.GetAllowedOrigins(),
		container.Config.GetAdminToken(),
	)

	server := &http.Server{
		Addr:              ":" + container.Config.GetServerPort(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return container.SessionService.RunJanitor(gctx, janitorInterval)
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error("Server stopped with error", err)
		os.Exit(1)
	}
	appLogger.Info("Server exited")
}
