package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"shopassist/internal/config"
	"shopassist/internal/handler"
	"shopassist/internal/logging"
	"shopassist/internal/repository"
	"shopassist/internal/scraper"
	"shopassist/internal/service"
	"shopassist/internal/session"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("build_time", BuildTime).
		Str("git_commit", GitCommit).
		Msg("Shopping Assistant")

	ctx := context.Background()

	// Session store
	var store session.Store
	if cfg.Redis.Enabled {
		redisStore, err := session.NewRedisStore(ctx, session.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisStore.Close()
		store = redisStore
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("✅ Sessions stored in Redis")
	} else {
		store = session.NewMemoryStore(cfg.Session.TTL)
		logger.Warn().Msg("⚠️  REDIS_ADDR not set - sessions are kept in memory")
	}

	// Optional analytics database
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer repo.Close()

		if err := repo.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		logger.Info().Msg("✅ Connected to PostgreSQL database")
	}

	// Product source
	var source service.ProductSource = scraper.SampleSource{}
	if cfg.Features.Scraping {
		source = scraper.NewJijiClient(cfg.Scraper, logger)
	} else {
		logger.Warn().Msg("⚠️  Scraping disabled - serving sample products")
	}

	// Initialize services
	classifier := service.NewIntentClassifier(service.NewEntityExtractor(), cfg.Classifier.MaxQueryLength)
	ranker := service.NewRanker(cfg.Ranking.WeightRelevance, cfg.Ranking.WeightPrice)
	searcher := service.NewProductSearcher(source, ranker, cfg.Scraper.MaxResults, logger)

	var opts []service.AssistantOption
	var feedbackRepo handler.FeedbackLogger
	var statsSource handler.IntentStatsSource
	var alertLister handler.PriceAlertLister
	if repo != nil {
		opts = append(opts, service.WithInteractionLogger(repo), service.WithPriceAlertStore(repo))
		feedbackRepo = repo
		statsSource = repo
		alertLister = repo
	}
	assistant := service.NewAssistant(classifier, searcher, cfg.Features, logger, opts...)

	logger.Info().Msg("✅ Services initialized")

	limits := session.Limits{
		MaxChatMessages:  cfg.Session.MaxChatMessages,
		MaxSearchHistory: cfg.Session.MaxSearchHistory,
	}

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), logging.GinMiddleware(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.Server.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.Server.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "healthy",
			"service": logging.ServiceName,
			"version": Version,
		}
		if repo != nil {
			if err := repo.Ping(c.Request.Context()); err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
		}
		c.JSON(http.StatusOK, status)
	})

	// Version endpoint
	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	// API routes
	handler.RegisterRoutes(router.Group("/api/v1"), handler.Handlers{
		Chat:     handler.NewChatHandler(assistant, store, limits, logger),
		Sessions: handler.NewSessionHandler(store, alertLister),
		Feedback: handler.NewFeedbackHandler(store, feedbackRepo, logger),
		Support:  handler.NewSupportHandler(assistant, statsSource),
	})

	// Serve static files (chat UI)
	// This function is implemented in embed.go (production) or static_dev.go (development)
	setupStaticFiles(router, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("🚀 Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("🛑 Shutting down server...")
	shutdown(srv, logger)
	// drain interaction writes before the deferred repo.Close
	assistant.Wait()
	logger.Info().Msg("✅ Server stopped")
}

func shutdown(srv *http.Server, logger zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
