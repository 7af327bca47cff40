package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shopdash-gateway/internal/application"
	"shopdash-gateway/internal/application/webhook_handlers"
	"shopdash-gateway/internal/config"
	"shopdash-gateway/internal/infrastructure/api"
	appmetrics "shopdash-gateway/internal/infrastructure/metrics"
	securitymiddleware "shopdash-gateway/internal/infrastructure/middleware"
	"shopdash-gateway/internal/infrastructure/pubsub"
	"shopdash-gateway/internal/infrastructure/redisstore"
	"shopdash-gateway/internal/infrastructure/repository"
	shopifyinfra "shopdash-gateway/internal/infrastructure/shopify"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Connect to Redis (credential store)
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	defer redisClient.Close()

	// Connect to MongoDB (webhook audit log)
	mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(context.Background())
	db := mongoClient.Database(cfg.MongoDatabase)

	metrics := appmetrics.New(prometheus.DefaultRegisterer)

	// Core services
	store := redisstore.New(redisClient, logger)
	sessions := application.NewSessionService(store, logger)
	shopifyClient := shopifyinfra.NewClient(cfg.APIKey, cfg.APISecret, logger)

	// Webhook dispatcher: every feature area registers its topics here before
	// the router is built.
	dispatcher := application.NewWebhookDispatcher(logger)
	webhook_handlers.NewOrderHandler(logger).Register(dispatcher)
	webhook_handlers.NewProductHandler(logger).Register(dispatcher)
	webhook_handlers.NewAppUninstalledHandler(sessions, logger).Register(dispatcher)

	oauthService := application.NewOAuthService(shopifyClient, sessions, cfg, dispatcher.Topics(), logger)

	// Webhook pub/sub: the Mongo audit logger consumes verified deliveries
	// off the request path.
	events := pubsub.NewWebhookPubSub(logger)
	webhookLog := repository.NewMongoWebhookLog(db)
	auditCh := events.Subscribe(context.Background(), nil)
	go func() {
		for envelope := range auditCh.Events {
			if err := webhookLog.LogWebhook(context.Background(), envelope); err != nil {
				logger.Error().Err(err).Str("topic", envelope.Topic).Msg("Failed to log webhook event")
			}
		}
	}()

	// HTTP handlers
	oauthHandler := api.NewOAuthHandler(oauthService, cfg, metrics, logger)
	sessionHandler := api.NewSessionHandler(sessions, logger)
	graphqlProxy := api.NewGraphQLProxy(sessions, cfg, metrics, logger)
	webhookVerifier := shopifyinfra.NewWebhookVerifier(cfg.APISecret)
	webhookHandler := api.NewWebhookHandler(webhookVerifier, dispatcher, events, metrics, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securitymiddleware.SecurityHeadersMiddleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AppURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// OAuth routes
	r.Get("/auth/shopify", oauthHandler.Begin)
	r.Get("/auth/shopify/online", oauthHandler.BeginOnline)
	r.Get("/auth/callback", oauthHandler.Callback)

	// Dashboard API routes
	r.Get("/api/session", sessionHandler.GetSession)
	r.Get("/api/validate-session", sessionHandler.ValidateSession)
	r.Post("/api/graphql", graphqlProxy.Handle)

	// Webhook endpoint: raw body required, nothing parses it before the handler.
	r.Post("/webhooks/shopify", webhookHandler.Handle)

	logger.Info().Str("port", cfg.Port).Msg("Starting API server")
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}
