package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/sitesmith/sitesmith-api/internal/config"
	"github.com/sitesmith/sitesmith-api/internal/domain/auth"
	"github.com/sitesmith/sitesmith-api/internal/domain/credit"
	"github.com/sitesmith/sitesmith-api/internal/domain/generation"
	"github.com/sitesmith/sitesmith-api/internal/domain/payment"
	"github.com/sitesmith/sitesmith-api/internal/domain/project"
	"github.com/sitesmith/sitesmith-api/internal/domain/user"
	"github.com/sitesmith/sitesmith-api/internal/middleware"
	"github.com/sitesmith/sitesmith-api/internal/pkg/checkout"
	"github.com/sitesmith/sitesmith-api/internal/pkg/database"
	"github.com/sitesmith/sitesmith-api/internal/pkg/jwt"
	"github.com/sitesmith/sitesmith-api/internal/pkg/llm"
	"github.com/sitesmith/sitesmith-api/internal/pkg/logger"
	"github.com/sitesmith/sitesmith-api/internal/pkg/response"
	"github.com/sitesmith/sitesmith-api/internal/pkg/storage"
)

func main() {
	cfg := config.Load()

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env}); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting SiteSmith API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	// ---------- External clients ----------
	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLMBaseURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
	})
	transformer := llm.NewTransformer(llmClient)

	checkoutClient := checkout.NewClient(checkout.Config{
		BaseURL: cfg.CheckoutBaseURL,
		APIKey:  cfg.CheckoutAPIKey,
	})

	var sitePublisher project.SitePublisher
	if cfg.SiteStoreAccessKey != "" {
		siteStore, err := storage.NewSiteStore(storage.Config{
			Endpoint:  cfg.SiteStoreEndpoint,
			Region:    cfg.SiteStoreRegion,
			AccessKey: cfg.SiteStoreAccessKey,
			SecretKey: cfg.SiteStoreSecretKey,
			Bucket:    cfg.SiteStoreBucket,
			PublicURL: cfg.SiteStorePublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create site store")
		}
		sitePublisher = siteStore
	} else {
		log.Warn().Msg("Site store not configured, publish toggle will not upload sites")
	}

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	projectRepo := project.NewRepository(db)
	paymentRepo := payment.NewRepository(db)

	// ---------- Services ----------
	creditService := credit.NewService(db)
	authService := auth.NewService(userRepo, jwtService, redis)
	projectService := project.NewService(projectRepo, sitePublisher)
	generationService := generation.NewService(projectRepo, creditService, userRepo, transformer)
	paymentService := payment.NewService(paymentRepo, checkoutClient, cfg.FrontendURL)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService, creditService)
	projectHandler := project.NewHandler(projectService)
	generationHandler := generation.NewHandler(generationService)
	paymentHandler := payment.NewHandler(paymentService)

	authMiddleware := middleware.Auth(jwtService)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)

			r.Get("/me", authHandler.Me)
			r.Get("/me/credits", authHandler.MeCredits)

			r.Route("/projects", func(r chi.Router) {
				r.Post("/", generationHandler.Create)
				r.Get("/", projectHandler.List)
				r.Get("/{id}", projectHandler.Get)
				r.Post("/{id}/generations", generationHandler.Iterate)
				r.Post("/{id}/publish", projectHandler.TogglePublish)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/plans", paymentHandler.Plans)
				r.Post("/checkout", paymentHandler.Checkout)
			})
		})
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Debited generation jobs must finish their saga before exit.
	log.Info().Msg("Waiting for in-flight generation jobs")
	generationService.Wait()

	log.Info().Msg("Server exited properly")
}
