package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/michaelkomolafe/dfs-optimizer/internal/api"
	"github.com/michaelkomolafe/dfs-optimizer/internal/enrichment"
	"github.com/michaelkomolafe/dfs-optimizer/internal/matching"
	"github.com/michaelkomolafe/dfs-optimizer/internal/optimizer"
	"github.com/michaelkomolafe/dfs-optimizer/internal/scoring"
	"github.com/michaelkomolafe/dfs-optimizer/internal/storage"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/config"
	"github.com/michaelkomolafe/dfs-optimizer/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger()
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Run-history database
	db, err := storage.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	runStore := storage.NewRunStore(db)

	// Redis backs the provider fact cache; enrichment degrades to direct
	// feed fetches without it, so an unreachable redis is not fatal.
	var factCache *enrichment.FactCache
	if opt, err := redis.ParseURL(cfg.RedisURL); err != nil {
		log.Warnf("Invalid Redis URL, running without fact cache: %v", err)
	} else {
		redisClient := redis.NewClient(opt)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warnf("Redis unreachable, running without fact cache: %v", err)
			redisClient.Close()
		} else {
			factCache = enrichment.NewFactCache(redisClient, cfg.FactCacheExpiration)
			defer redisClient.Close()
		}
		cancel()
	}

	// Enrichment providers. A provider with no feed URL reports facts as
	// absent rather than failing runs.
	providers := []enrichment.Provider{
		enrichment.NewRecentFormProviderHTTP(cfg.RecentFormFeedURL, cfg.ProviderRateLimit, cfg.CircuitBreakerMaxFail, factCache),
		enrichment.NewVegasProviderHTTP(cfg.OddsFeedURL, cfg.ProviderRateLimit, cfg.CircuitBreakerMaxFail, factCache),
		enrichment.NewStatcastProviderHTTP(cfg.StatcastFeedURL, cfg.ProviderRateLimit, cfg.CircuitBreakerMaxFail, factCache),
		enrichment.NewParkFactorProvider(nil),
	}
	fetcher := enrichment.NewFetcher(providers, cfg.ProviderTimeout)

	// Lineup confirmations, refreshed on a schedule.
	confirmationSource := enrichment.NewScheduleConfirmationSource(
		cfg.ConfirmationFeedURL, cfg.ProviderRateLimit, cfg.CircuitBreakerMaxFail, factCache)
	confirmations := enrichment.NewConfirmationService(confirmationSource)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.ConfirmationSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ProviderTimeout)
		defer cancel()
		if err := confirmations.Refresh(ctx); err != nil {
			log.WithError(err).Warn("Scheduled confirmation refresh failed")
		}
	}); err != nil {
		log.Warnf("Invalid confirmation schedule %q: %v", cfg.ConfirmationSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	scorer := scoring.NewEngine(scoring.Weights{
		RecentForm: cfg.RecentFormWeight,
		Vegas:      cfg.VegasWeight,
		Matchup:    cfg.MatchupWeight,
		Park:       cfg.ParkWeight,
	})
	solver := optimizer.NewService(cfg.UseExactSolver)
	matcher := matching.NewMatcher()

	runService := api.NewRunService(cfg, matcher, scorer, fetcher, confirmations, solver, runStore)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(api.RequestLogger())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, runService, runStore)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exited")
}
