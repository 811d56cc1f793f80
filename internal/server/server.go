package server

import (
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nusapay/nusapay-api/internal/db"
	"github.com/nusapay/nusapay-api/internal/gas"
	"github.com/nusapay/nusapay-api/internal/handlers"
	"github.com/nusapay/nusapay-api/internal/logger"
	"github.com/nusapay/nusapay-api/internal/services"
	"go.uber.org/zap"
)

// Handler definitions
var (
	gasHandler   *handlers.GasHandler
	priceHandler *handlers.PriceHandler

	// Database
	dbQueries *db.Queries
)

// InitializeHandlers wires the database, the price oracle, the fee engine and
// the HTTP handlers. Called once at startup.
func InitializeHandlers() {
	// Get database connection string from environment
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}

	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		logger.Fatal("Unable to parse database connection string", zap.Error(err))
	}

	poolConfig.MaxConns = 20
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30

	connPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Fatal("Unable to create connection pool", zap.Error(err))
	}

	dbQueries = db.New(connPool)

	networkService := services.NewNetworkService(dbQueries)
	tokenService := services.NewTokenService(dbQueries)
	oracle := services.NewPriceOracle(dbQueries, services.DefaultPriceTTL)

	engineConfig := gas.DefaultConfig()
	engineConfig.TONAPIKey = os.Getenv("TONCENTER_API_KEY")

	registry, err := gas.NewRegistry(networkService.LoadDescriptors(context.Background()), engineConfig)
	if err != nil {
		logger.Fatal("Unable to build fee estimator registry", zap.Error(err))
	}

	fiatPair := getEnvWithDefault("FIAT_PAIR", "usd_idr")
	fiatCurrency := getEnvWithDefault("FIAT_CURRENCY", "IDR")
	engine := gas.NewEngine(registry, oracle, fiatPair, fiatCurrency)

	common := handlers.NewCommonServices(dbQueries)
	gasHandler = handlers.NewGasHandler(common, engine, networkService, tokenService)
	priceHandler = handlers.NewPriceHandler(common)
}

// SetupRouter configures the gin router with middleware and routes.
func SetupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestID())

	corsConfig := cors.DefaultConfig()
	allowedOrigins := getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")
	if allowedOrigins == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	}
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/gas/estimate", gasHandler.EstimateGas)
		v1.GET("/gas/networks", gasHandler.ListNetworks)
		v1.GET("/prices/:symbol", priceHandler.GetPrice)
		v1.GET("/rates/:pair", priceHandler.GetExchangeRate)
	}

	return router
}

// Run starts the HTTP server.
func Run() error {
	InitializeHandlers()
	router := SetupRouter()

	port := getEnvWithDefault("PORT", "8000")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting API server", zap.String("port", port))
	return srv.ListenAndServe()
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
