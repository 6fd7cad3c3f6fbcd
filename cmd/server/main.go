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
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/landsalelk/landsalelk-sub005/internal/config"
	"github.com/landsalelk/landsalelk-sub005/internal/handler"
	"github.com/landsalelk/landsalelk-sub005/internal/logger"
	"github.com/landsalelk/landsalelk-sub005/internal/notify"
	"github.com/landsalelk/landsalelk-sub005/internal/repository"
	"github.com/landsalelk/landsalelk-sub005/internal/service"
	"github.com/landsalelk/landsalelk-sub005/internal/session"
	"github.com/landsalelk/landsalelk-sub005/internal/transport"
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

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer func() { _ = log.Sync() }()

	log.Info("LandSale assistant",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// Completion client: a missing key is a configuration error
	completer, err := service.NewCompletionClient(&cfg.AI, log.Named("completion"))
	if err != nil {
		log.Fatal("failed to create completion client", zap.Error(err))
	}
	log.Info("completion client initialized",
		zap.String("api_base", cfg.AI.APIBase),
		zap.Strings("models", cfg.AI.Models),
		zap.Float64("temperature", cfg.AI.Temperature),
		zap.Duration("request_timeout", cfg.AI.RequestTimeout),
	)

	assistant := service.NewAssistant(completer, service.NewIntentParser(log.Named("intent")), log.Named("assistant"))
	conversation := service.NewConversationService(assistant, cfg.AI.MaxHistory, log.Named("conversation"))

	// Optional backends
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Warn("PostgreSQL unavailable, listing search and lead storage disabled", zap.Error(err))
		} else {
			defer repo.Close()
			if err := repo.EnsureSchema(context.Background()); err != nil {
				log.Warn("failed to prepare leads table", zap.Error(err))
			}
			log.Info("connected to PostgreSQL database")
		}
	}

	var notifier service.LeadNotifier = notify.NopNotifier{}
	if cfg.Leads.SNSTopicARN != "" {
		sns, err := notify.NewSNSNotifier(context.Background(), cfg.Leads.AWSRegion, cfg.Leads.SNSTopicARN)
		if err != nil {
			log.Warn("SNS unavailable, lead notifications disabled", zap.Error(err))
		} else {
			notifier = sns
			log.Info("lead notifications enabled", zap.String("topic", cfg.Leads.SNSTopicARN))
		}
	}

	if repo != nil {
		ranker := service.NewRanker(cfg.Search.WeightPrice, cfg.Search.WeightRecency)
		conversation.WithListings(service.NewListingService(repo, ranker, cfg.Search.DefaultLimit))
		conversation.WithLeads(service.NewLeadService(repo, notifier, log.Named("leads")))
	} else {
		conversation.WithLeads(service.NewLeadService(nil, notifier, log.Named("leads")))
	}

	var sessions *session.RedisStore
	if cfg.Redis.Enabled {
		sessions, err = session.NewRedisStore(cfg.Redis.URL, cfg.Redis.SessionTTL, cfg.Redis.MaxMessages)
		if err != nil {
			log.Warn("Redis unavailable, session history disabled", zap.Error(err))
			sessions = nil
		} else {
			defer sessions.Close()
			conversation.WithSessions(sessions)
			log.Info("session history enabled", zap.Duration("ttl", cfg.Redis.SessionTTL))
		}
	}

	if cfg.NATS.Enabled {
		nt, err := transport.NewNATSTransport(cfg.NATS, conversation, log.Named("nats"))
		if err != nil {
			log.Warn("NATS unavailable", zap.Error(err))
		} else if err := nt.Start(); err != nil {
			log.Warn("failed to start NATS transport", zap.Error(err))
			_ = nt.Close()
		} else {
			defer nt.Close()
		}
	}

	// Setup Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), handler.RequestLogger(log.Named("http")))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitOrigins(cfg.Server.AllowedOrigins)
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "healthy",
			"service": "landsale-assistant",
			"version": Version,
		}
		if repo != nil {
			status["postgres"] = pingStatus(c.Request.Context(), repo.Ping)
		}
		if sessions != nil {
			status["redis"] = pingStatus(c.Request.Context(), sessions.Ping)
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

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	chatHandler := handler.NewChatHandler(conversation, log.Named("chat"))
	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/ai", chatHandler.Chat)
		if sessions != nil {
			apiV1.DELETE("/ai/sessions/:id", handler.NewSessionHandler(sessions).Clear)
		}
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.AI.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func pingStatus(ctx context.Context, ping func(context.Context) error) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := ping(ctx); err != nil {
		return "unhealthy: " + err.Error()
	}
	return "healthy"
}
