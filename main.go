package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"trending-videos/domain/repository"
	"trending-videos/infrastructure/cache"
	youtubeclient "trending-videos/infrastructure/clients/youtube"
	"trending-videos/infrastructure/configuration"
	"trending-videos/infrastructure/filecsv"
	"trending-videos/infrastructure/logger"
	"trending-videos/infrastructure/persistence"
	"trending-videos/infrastructure/pubsub"
	httpHandler "trending-videos/interfaces/http"
	"trending-videos/server"
	"trending-videos/usecase"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// OS env still has precedence over values from these files
	loaded := configuration.LoadEnvFromFile("config.env", ".env")
	logger.GetLogger().WithField("keys", len(loaded)).Info("Environment files loaded")

	cfg, err := configuration.LoadConfig()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot load configuration")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Invalid configuration")
		os.Exit(1)
	}

	platform, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:         cfg.YouTube.APIKey,
		RequestTimeout: cfg.YouTube.RequestTimeout,
		Breaker: youtubeclient.BreakerConfig{
			MaxRequests:  cfg.YouTube.Breaker.MaxRequests,
			Interval:     cfg.YouTube.Breaker.Interval,
			Timeout:      cfg.YouTube.Breaker.Timeout,
			FailureRatio: cfg.YouTube.Breaker.FailureRatio,
		},
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Cannot create YouTube client")
		os.Exit(1)
	}

	durable, closeStore, err := InitiateListingCache(ctx, cfg)
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"driver": cfg.Cache.Driver, "error": err}).Error("Cannot open listing cache")
		os.Exit(1)
	}
	defer closeStore()

	acquirer := usecase.NewAcquirer(platform, cfg.YouTube.RegionCode, usecase.FetchTargets{
		Trending: cfg.Fetch.TrendingTarget,
		Category: cfg.Fetch.CategoryTarget,
		Search:   cfg.Fetch.SearchTarget,
		PageSize: cfg.Fetch.PageSize,
	})
	listingUseCase := usecase.NewListingUseCase(acquirer, durable, cfg.Cache.StaleAfter)
	if cfg.Pubsub.Enabled {
		pubSubClient, err := pubsub.NewPubSub(ctx, cfg.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without refresh events")
		} else {
			defer pubSubClient.Close()
			publisher := pubsub.NewRefreshPublisher(pubSubClient, cfg.Pubsub.Topic)
			defer publisher.Stop()
			listingUseCase.WithNotifier(publisher)
		}
	}
	sessions := usecase.NewSessionRegistry(cfg.Cache.MaxSessions, cfg.Cache.SearchCapacity, cfg.Cache.SessionTTL)

	listingHandler := httpHandler.NewListingHandler(listingUseCase, cfg.YouTube.RegionCode)
	router := server.InitiateRouter(listingHandler, sessions, cfg.Cache.SessionTTL, cfg.App.AllowOrigins)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Scheduler.Enabled {
		scheduler := usecase.NewRefreshScheduler(listingUseCase, cfg.Scheduler.Interval, cfg.Scheduler.Categories)
		g.Go(func() error {
			return scheduler.Run(ctx)
		})
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"port":   cfg.App.Port,
		"region": cfg.YouTube.RegionCode,
		"driver": cfg.Cache.Driver,
	}).Info("Starting application")
	g.Go(func() error {
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.GetLogger().Info("Application shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateListingCache opens the durable cache tier picked by cache.driver.
// The returned func releases any connection it holds.
func InitiateListingCache(ctx context.Context, cfg *configuration.Config) (repository.IListingCache, func(), error) {
	switch cfg.Cache.Driver {
	case "redis":
		client, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", cfg.RedisClient.Host, cfg.RedisClient.Port),
			cfg.RedisClient.Username,
			cfg.RedisClient.Password,
			cfg.RedisClient.Database,
		)
		if err != nil {
			return nil, nil, err
		}
		logger.GetLogger().Info("Redis client initialized successfully.")
		return cache.NewListingCache(client, cfg.Cache.KeyPrefix), func() { _ = client.Close() }, nil
	case "postgres":
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureListingCacheSchema(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return persistence.NewListingCacheRepository(db), func() { _ = db.Close() }, nil
	}
	store, err := filecsv.NewListingStore(cfg.Cache.Dir)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {}, nil
}
