package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/nusapay/nusapay-api/internal/logger"
	"github.com/nusapay/nusapay-api/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file if present; in deployed
	// environments the variables come from the runtime.
	_ = godotenv.Load()

	stage := os.Getenv("STAGE")
	if stage == "" {
		stage = "development"
	}
	logger.InitLogger(stage)
	defer logger.Sync()

	if err := server.Run(); err != nil {
		logger.Fatal("Server exited", zap.Error(err))
	}
}
