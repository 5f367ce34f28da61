package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"remittease.backend/internal/config"
	"remittease.backend/internal/infrastructure/blockchain"
	"remittease.backend/internal/infrastructure/jobs"
	"remittease.backend/internal/infrastructure/repositories"
	"remittease.backend/internal/interfaces/http/handlers"
	"remittease.backend/internal/interfaces/http/middleware"
	"remittease.backend/internal/usecases"
	"remittease.backend/pkg/jwt"
	"remittease.backend/pkg/logger"
	"remittease.backend/pkg/redis"
)

// draftTTL bounds how long an abandoned wizard run survives in Redis.
const draftTTL = 30 * time.Minute

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	newSessionStore = redis.NewSessionStore
	newProvider     = blockchain.NewProviderClient
	runServer       = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB        = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg, err := loadCfg()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	defer redis.Close()
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	db, err := openDB(cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Connect to the blockchain provider
	provider, err := newProvider(cfg.Blockchain.RPCURL, cfg.Blockchain.BlockWindow, cfg.Blockchain.RequestTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain provider: %w", err)
	}
	defer provider.Close()
	logger.Info(context.Background(), "Blockchain provider connected",
		zap.String("chainId", provider.ChainID().String()))

	// Load the exchange-rate table
	rateTable, err := config.LoadRateTable(cfg.Rates.TablePath)
	if err != nil {
		return fmt.Errorf("failed to load rate table: %w", err)
	}

	// Initialize JWT service
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpiry,
		cfg.JWT.RefreshExpiry,
	)

	// Initialize repositories and stores
	userRepo := repositories.NewUserRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	draftStore := redis.NewDraftStore(draftTTL)

	sessionStore, err := newSessionStore(cfg.Security.SessionEncryptionKey)
	if err != nil {
		return fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Initialize usecases
	quoteUsecase, err := usecases.NewQuoteUsecase(rateTable, cfg.Fees.NetworkRate, cfg.Fees.ServiceRate)
	if err != nil {
		return fmt.Errorf("failed to initialize quoting: %w", err)
	}
	authUsecase := usecases.NewAuthUsecase(userRepo, jwtService, sessionStore, provider, quoteUsecase)
	transferUsecase := usecases.NewTransferUsecase(draftStore, quoteUsecase, provider, transferRepo, cfg.Blockchain.TreasuryAddress)
	feedUsecase := usecases.NewFeedUsecase(transferRepo, provider)
	userUsecase := usecases.NewUserUsecase(userRepo, feedUsecase, provider, quoteUsecase)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authUsecase, cfg.Server.Env == "production")
	walletHandler := handlers.NewWalletHandler(transferUsecase, feedUsecase, quoteUsecase)
	transferHandler := handlers.NewTransferHandler(transferUsecase)
	userHandler := handlers.NewUserHandler(userUsecase)
	configHandler := handlers.NewConfigHandler(cfg.Widget.PublicKey, cfg.Widget.Environment)
	healthHandler := handlers.NewHealthHandler(
		sqlDB.PingContext,
		func(ctx context.Context) error { return redis.GetClient().Ping(ctx).Err() },
		provider.Ping,
	)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refreshJob := jobs.NewRateRefreshJob(
		config.RateFileSource{Path: cfg.Rates.TablePath},
		quoteUsecase,
		cfg.Rates.RefreshInterval,
	)
	go refreshJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.MetricsMiddleware())

	applyCORSMiddleware(r)
	registerOpsRoutes(r, healthHandler)
	registerAPIV1Routes(r, routeDeps{
		authHandler:     authHandler,
		walletHandler:   walletHandler,
		transferHandler: transferHandler,
		userHandler:     userHandler,
		configHandler:   configHandler,
		sessionAuth:     middleware.SessionAuthMiddleware(authUsecase),
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		refreshJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 RemittEase Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
