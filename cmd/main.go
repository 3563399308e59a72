package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/weiawesome/social-search/internal/cache"
	"github.com/weiawesome/social-search/internal/config"
	"github.com/weiawesome/social-search/internal/domain"
	"github.com/weiawesome/social-search/internal/handler"
	"github.com/weiawesome/social-search/internal/invalidation"
	"github.com/weiawesome/social-search/internal/repository"
	"github.com/weiawesome/social-search/internal/service"
	"github.com/weiawesome/social-search/pkg/database"
	"github.com/weiawesome/social-search/pkg/jwt"
	pkglog "github.com/weiawesome/social-search/pkg/log"
	"github.com/weiawesome/social-search/pkg/middleware"
	"github.com/weiawesome/social-search/pkg/pubsub"
	"github.com/weiawesome/social-search/pkg/storage"
)

func main() {
	// Load configuration; the log level follows edits to the config file
	cfg, err := config.LoadAndWatch(func(next *config.Config) {
		pkglog.SetLevel(next.Log.Level)
	})
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug" || cfg.Log.Pretty,
		ServiceName: cfg.Log.ServiceName,
	})
	logger := pkglog.L()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = pkglog.WithLogger(ctx, logger)

	// Initialize database
	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, domain.AllModels()...); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		logger.Info().Msg("database migrated")
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database connected")

	// Initialize repository
	searchRepo, err := initRepository(cfg, db)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize repository")
	}

	// Initialize Redis cache
	searchCache, redisCache := initCache(cfg)
	if redisCache != nil {
		defer redisCache.Close()
	}

	// Initialize media resolver
	media, err := initMedia(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize media storage")
	}

	// Initialize cache invalidation
	if searchCache != nil {
		bus, err := initPubSub(cfg, redisCache)
		if err != nil {
			logger.Warn().Err(err).Msg("event bus unavailable, cache entries expire by ttl only")
		} else if bus != nil {
			defer bus.Close()
			sub := invalidation.NewSubscriber(bus, searchCache)
			go func() {
				if err := sub.Run(ctx); err != nil {
					logger.Error().Err(err).Msg("cache invalidation stopped")
				}
			}()
		}
	}

	// Initialize service
	searchService := service.NewSearchService(searchRepo, service.Options{
		Cache:       searchCache,
		CacheTTL:    cfg.Cache.TTL,
		Defaults:    cfg.Search.Limits,
		AuthorLimit: cfg.Search.MatchedAuthorLimit,
		Media:       media,
		MediaExpiry: cfg.Media.URLExpiry,
	})

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(searchService, middleware.NewAuthMiddleware(initVerifier(cfg)))

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	// Register routes
	httpHandler.RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("search-service starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down search-service")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("search-service stopped")
}

// initRepository builds the search repository. Profile queries can be
// served from the Elasticsearch profile index instead of the database.
func initRepository(cfg *config.Config, db *gorm.DB) (repository.SearchRepository, error) {
	l := pkglog.L()
	gormRepo := repository.NewGormSearchRepository(db)

	switch cfg.Search.ProfileBackend {
	case config.ProfileBackendElasticsearch:
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
		}

		// Verify ES connection
		res, err := esClient.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to elasticsearch: %w", err)
		}
		res.Body.Close()
		l.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

		profiles := repository.NewESProfileIndex(esClient, cfg.Elasticsearch.IndexProfiles)
		return repository.NewSplitRepository(profiles, gormRepo), nil

	case config.ProfileBackendDatabase, "":
		return gormRepo, nil

	default:
		return nil, fmt.Errorf("unsupported profile backend: %s", cfg.Search.ProfileBackend)
	}
}

// initCache connects the Redis cache. Search keeps working without it.
func initCache(cfg *config.Config) (cache.SearchCache, *cache.RedisSearchCache) {
	l := pkglog.L()
	if !cfg.Cache.Enabled {
		l.Warn().Msg("search cache disabled")
		return nil, nil
	}

	redisCache, err := cache.NewRedisSearchCache(cfg.Redis, cfg.Cache.Prefix)
	if err != nil {
		l.Warn().Err(err).Msg("failed to connect to redis, running without cache")
		return nil, nil
	}
	l.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisCache, redisCache
}

// initPubSub returns the event bus carrying content-change events. The
// Redis driver reuses the cache connection when it has one.
func initPubSub(cfg *config.Config, redisCache *cache.RedisSearchCache) (pubsub.PubSub, error) {
	switch cfg.PubSub.Driver {
	case "none", "":
		return nil, nil
	case "redis":
		if redisCache != nil && cfg.PubSub.Redis.Address == cfg.Redis.Address {
			return pubsub.NewRedisPubSubFromClient(redisCache.Client()), nil
		}
		return pubsub.NewPubSub(cfg.PubSub)
	case "kafka":
		return pubsub.NewPubSub(cfg.PubSub)
	default:
		return nil, fmt.Errorf("unsupported pubsub driver: %s", cfg.PubSub.Driver)
	}
}

// initMedia returns the resolver for stored media keys, or nil when
// media values are stored as full URLs.
func initMedia(ctx context.Context, cfg *config.Config) (storage.URLResolver, error) {
	switch cfg.Media.Driver {
	case "s3":
		return storage.NewS3Storage(ctx, cfg.Media.S3)
	case "local":
		return storage.NewLocalStorage(cfg.Media.Local), nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported media driver: %s", cfg.Media.Driver)
	}
}

// initVerifier returns the bearer token verifier, or nil when no secret is
// configured and every request is anonymous.
func initVerifier(cfg *config.Config) middleware.TokenVerifier {
	l := pkglog.L()
	verifier, err := jwt.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.Leeway)
	if err != nil {
		l.Warn().Err(err).Msg("token verification disabled, all searches are anonymous")
		return nil
	}
	return verifier
}
