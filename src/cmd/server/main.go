package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/teamdesk/helpdesk-service/src/internal/api"
	"github.com/teamdesk/helpdesk-service/src/internal/service"
	"github.com/teamdesk/helpdesk-service/src/internal/store"
)

func main() {
	port := getenv("PORT", "8080")
	dataFile := getenv("DATA_FILE", "data.json")
	authFile := getenv("AUTH_FILE", "auth.json")

	dataDir := flag.String("data", ".", "directory holding the JSON data files")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Fatal("failed to sync logger", zap.Error(err))
		}
	}(logger)
	sugar := logger.Sugar()

	docs := store.NewFileStore(filepath.Join(*dataDir, dataFile), logger)
	creds := store.NewCredentialFile(filepath.Join(*dataDir, authFile), logger)

	svc := service.New(docs, creds, logger)
	h := api.NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(api.RequestIDMiddleware, api.LoggerMiddleware(logger), api.Recoverer(logger))
	api.RegisterRoutes(r, h)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infof("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	sugar.Infof("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		sugar.Fatalf("server forced to shutdown: %v", err)
	}
	sugar.Info("server stopped")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
