package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saqibullah/diagnosify/api"
	"github.com/saqibullah/diagnosify/config"
	"github.com/saqibullah/diagnosify/predictor"
	"github.com/saqibullah/diagnosify/store"
)

func main() {
	config.InitLogger()
	cfg := config.Load()
	slog.Info("Starting Diagnosify backend",
		"port", cfg.Server.Port,
		"models_dir", cfg.Models.Dir,
		"store", cfg.Store.Driver,
	)

	if err := os.MkdirAll(cfg.Upload.Dir, 0755); err != nil {
		slog.Error("Failed to create upload directory", "dir", cfg.Upload.Dir, "error", err)
		os.Exit(1)
	}

	models := predictor.Load(predictor.LoadOptions{
		Dir:           cfg.Models.Dir,
		RemoteURL:     cfg.Models.ServiceURL,
		RemoteTimeout: cfg.Models.Timeout,
	})
	if len(models.Loaded()) == 0 {
		slog.Warn("No models loaded; place model files in the models directory or set ML_SERVICE_URL", "dir", cfg.Models.Dir)
	}

	datasets, err := store.Open(cfg)
	if err != nil {
		slog.Error("Failed to open dataset store", "error", err)
		os.Exit(1)
	}
	defer datasets.Close()

	gin.SetMode(cfg.Server.Mode)
	handler := api.NewHandler(models, datasets, cfg.Upload)
	router := api.NewRouter(handler, cfg.Server, cfg.Upload.MaxBytes)

	server := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		slog.Info("Starting HTTP server", "port", cfg.Server.Port, "health", "/health")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	waitForShutdown(server)
}

func waitForShutdown(server *http.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}
	slog.Info("Server gracefully stopped")
}
