package main

import (
	"context"
	"os"

	"github.com/yigit/unienroll/internal/pkg/logger"
	"github.com/yigit/unienroll/internal/server"
)

// @title Enrollment Admin API
// @version 1.0
// @description Students, courses and enrollments for the university back office

// @host localhost:8000
// @BasePath /
// @schemes http

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-KEY

func main() {
	ctx := context.Background()
	srv, err := server.NewServer(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
