package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"autostat/internal"
	"autostat/internal/config"
	"autostat/internal/container"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appContainer, err := container.New(appConfig, logger, nil)
	if err != nil {
		logger.Error("failed to create application container: %v", err)
		os.Exit(1)
	}
	if err := appContainer.Init(ctx); err != nil {
		logger.Error("failed to initialize application container: %v", err)
		os.Exit(1)
	}
	defer appContainer.Shutdown(context.Background())

	appContainer.StartJanitor(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return appContainer.Server.Run(gctx) })
	if appContainer.Diagnostics != nil {
		g.Go(func() error { return appContainer.Diagnostics.Run(gctx) })
	}

	logger.Info("starting autostat on port %s (session store: %s)", appConfig.Server.Port, appConfig.Session.Store)
	if err := g.Wait(); err != nil {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
