package main

import (
	"os"

	"github.com/Asus75000/sae-prof/internal/pkg/logger"
	"github.com/Asus75000/sae-prof/internal/server"
)

// @title Kasta CrossFit API
// @version 1.0
// @description Membership and event registration API of the Kasta CrossFit association

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	if err := run(); err != nil {
		logger.Error().Err(err).Msg("Server stopped with an error")
		os.Exit(1)
	}
	logger.Info().Msg("Application finished gracefully.")
}

func run() error {
	srv, err := server.NewServer()
	if err != nil {
		return err
	}
	// blocks until SIGINT or SIGTERM
	return srv.Run()
}
