package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/campusbites/checkout/config"
	"github.com/campusbites/checkout/internal/auth"
	"github.com/campusbites/checkout/internal/backend"
	"github.com/campusbites/checkout/internal/events"
	"github.com/campusbites/checkout/internal/fees"
	"github.com/campusbites/checkout/internal/gateway"
	handler "github.com/campusbites/checkout/internal/handler/http"
	"github.com/campusbites/checkout/internal/logger"
	"github.com/campusbites/checkout/internal/middleware"
	"github.com/campusbites/checkout/internal/repository"
	"github.com/campusbites/checkout/internal/repository/postgres"
	"github.com/campusbites/checkout/internal/service"
	"github.com/campusbites/checkout/internal/verify"
	"github.com/campusbites/checkout/internal/worker"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultAuthTokenKey = "f53ac685bbceebd75043e6be2e06ee07"

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	if err := logger.Initialize(cfg.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Log.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Log.Fatal("Error migrating database", zap.Error(err))
	}

	// initialize cart store
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Log.Fatal("Error parsing redis URL", zap.Error(err))
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	authTokenKey := cfg.AuthTokenKey
	if authTokenKey == "" {
		authTokenKey = defaultAuthTokenKey
	}
	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Log.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	// dependency injection
	cartRepo := repository.NewCartRepository(rdb)
	venueRepo := repository.NewVenueRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	feeResolver := fees.NewResolver(cartRepo, venueRepo)
	gatewayAdapter := gateway.NewAdapter(cfg.GatewayKeyID)
	backendClient := backend.NewClient(cfg.BackendAddr)
	verifyClient := verify.NewClient(cfg.BackendAddr)

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()

	checkoutService := service.NewCheckoutService(backendClient, verifyClient, feeResolver, gatewayAdapter, attemptRepo, producer)
	defer checkoutService.Close()

	checkoutHandler := handler.NewCheckoutHandler(checkoutService)

	// retry releases whose backend cancel failed
	reconciler := worker.NewReleaseReconciler(checkoutService)
	go reconciler.Run(ctx)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger.Log))

	// routes that require authentication
	router.Group(func(group chi.Router) {
		group.Use(handler.AuthMiddleware(token))
		group.Post("/api/checkout", checkoutHandler.SubmitCheckout())
		group.Post("/api/payment/verify", checkoutHandler.VerifyPayment())
		group.Post("/api/orders/{orderID}/cancel", checkoutHandler.CancelOrder())
		group.Get("/api/orders/{orderID}", checkoutHandler.GetOrderStatus())
	})

	logger.Log.Info("Running server", zap.String("addr", cfg.ServerAddr))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
