package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hilthontt/visper-admin/dependency"
)

func main() {
	container, err := dependency.NewContainer()
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing dependencies: %w", err))
	}

	loggerInstance := container.Logger

	loggerInstance.Info("Starting Visper admin API")

	router := container.SetupRouter()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", container.Config.Server.ExternalPort),
		Handler:        router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	go func() {
		loggerInstance.Info("Server starting",
			zap.String("port", container.Config.Server.ExternalPort),
			zap.String("mode", container.Config.Server.RunMode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	loggerInstance.Info("Server started successfully",
		zap.String("port", container.Config.Server.ExternalPort),
		zap.String("domain", container.Config.Server.Domain),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	loggerInstance.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		loggerInstance.Fatal("Server forced to shutdown", zap.Error(err))
	}

	if err := container.Shutdown(); err != nil {
		loggerInstance.Error("failed to shut down dependencies", zap.Error(err))
	}

	loggerInstance.Info("Server exited successfully")
}
