package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/eaglebank/ledger-service/internal/command"
	"github.com/eaglebank/ledger-service/internal/config"
	"github.com/eaglebank/ledger-service/internal/events"
	"github.com/eaglebank/ledger-service/internal/handler"
	"github.com/eaglebank/ledger-service/internal/middleware"
	"github.com/eaglebank/ledger-service/internal/query"
	redisClient "github.com/eaglebank/ledger-service/internal/redis"
	"github.com/eaglebank/ledger-service/internal/repository"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	middleware.MustInitJWTSecret(cfg.JWTSecret)

	// Database connection
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	// Redis connection
	redis, err := redisClient.NewClient(cfg.RedisAddr, cfg.RedisPassword, 0)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redis.Close()

	// Event publisher
	publisher := events.NewPublisher(redis.Client)

	// CQRS: write repos, read repos
	userWriteRepo := repository.NewUserWriteRepository(db)
	userReadRepo := repository.NewUserReadRepository(db, redis.Client)
	accountWriteRepo := repository.NewAccountWriteRepository(db)
	accountReadRepo := repository.NewAccountReadRepository(db, redis.Client)
	transactionWriteRepo := repository.NewTransactionWriteRepository(db)
	transactionReadRepo := repository.NewTransactionReadRepository(db)

	// Command + Query services
	userCommandSvc := command.NewUserCommandService(userWriteRepo, userReadRepo, publisher)
	accountCommandSvc := command.NewAccountCommandService(accountWriteRepo, accountReadRepo, publisher, cfg.DefaultCurrency)
	transferCommandSvc := command.NewTransferCommandService(
		accountWriteRepo,
		transactionWriteRepo,
		publisher,
		cfg.TransferGuard == config.TransferGuardOptimistic,
	)
	userQuerySvc := query.NewUserQueryService(userReadRepo)
	accountQuerySvc := query.NewAccountQueryService(accountReadRepo)
	authQuerySvc := query.NewAuthQueryService(userWriteRepo)
	transactionQuerySvc := query.NewTransactionQueryService(transactionReadRepo, accountReadRepo, cfg.HistoryScanLimit)

	userHandler := handler.NewUserHandler(userCommandSvc, userQuerySvc)
	authHandler := handler.NewAuthHandler(authQuerySvc)
	accountHandler := handler.NewAccountHandler(accountCommandSvc, accountQuerySvc)
	transactionHandler := handler.NewTransactionHandler(transactionQuerySvc)
	transferHandler := handler.NewTransferHandler(transferCommandSvc)

	// Transfer events refresh the account read views.
	subscriberCtx, stopSubscriber := context.WithCancel(context.Background())
	defer stopSubscriber()

	hostname, _ := os.Hostname()
	subscriber := events.NewSubscriber(redis.Client, events.SubscriberConfig{
		Group:    "ledger-service",
		Consumer: hostname,
		Stream:   events.TransferEventsStream,
		Handler:  accountCommandSvc.HandleTransferEvent,
	})
	go func() {
		if err := subscriber.Start(subscriberCtx); err != nil && subscriberCtx.Err() == nil {
			log.Printf("Transfer event subscriber stopped: %v", err)
		}
	}()

	// Setup router
	router := gin.Default()
	router.Use(middleware.LoggingMiddleware())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Public routes
	router.POST("/v1/users", userHandler.CreateUser)
	router.POST("/v1/auth/login", authHandler.Login)
	router.POST("/v1/auth/refresh", authHandler.RefreshToken)

	// Authenticated routes
	v1 := router.Group("/v1", middleware.AuthMiddleware())
	{
		v1.GET("/users/me", userHandler.GetMe)
		v1.POST("/accounts", accountHandler.OpenAccount)
		v1.GET("/accounts", accountHandler.ListAccounts)
		v1.GET("/accounts/:accountId", accountHandler.GetAccount)
		v1.GET("/accounts/:accountId/transactions", transactionHandler.ListTransactions)
		v1.POST("/transfers", transferHandler.CreateTransfer)
	}

	// Shut down the subscriber when the server is asked to stop.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down")
		stopSubscriber()
		os.Exit(0)
	}()

	log.Printf("Ledger service starting on port %s (transfer guard: %s)", cfg.ServerPort, cfg.TransferGuard)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
