// Package app connects the stores every command shares.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"formsmith/config"
	"formsmith/internal/cache"
	"formsmith/internal/log"
	"formsmith/internal/repository"
	"formsmith/internal/service"
)

const pingTimeout = 5 * time.Second

type App struct {
	Config *config.Config

	Mongo *mongo.Client
	DB    *mongo.Database
	Redis *redis.Client

	FormRepo     repository.FormRepo
	ResponseRepo repository.ResponseRepo

	FormCache      cache.FormCache
	SessionCache   cache.SessionCache
	AnalyticsCache cache.AnalyticsCache
	SubmitLock     cache.SubmitLock
	EventBus       cache.EventBus
}

// New connects to MongoDB and Redis and builds the repositories and caches
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("Connected to MongoDB")

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	if _, err := rdb.Ping(pingCtx).Result(); err != nil {
		_ = mongoClient.Disconnect(ctx)
		_ = rdb.Close()
		return nil, fmt.Errorf("ping Redis: %w", err)
	}
	log.Info("Connected to Redis")

	db := mongoClient.Database(cfg.MongoDB)
	return &App{
		Config: cfg,
		Mongo:  mongoClient,
		DB:     db,
		Redis:  rdb,

		FormRepo:     repository.NewFormRepo(db),
		ResponseRepo: repository.NewResponseRepo(db),

		FormCache:      cache.NewFormCache(rdb, cfg.FormCacheTTL),
		SessionCache:   cache.NewSessionCache(rdb, cfg.SessionTTL),
		AnalyticsCache: cache.NewAnalyticsCache(rdb),
		SubmitLock:     cache.NewSubmitLock(rdb, cfg.SubmitLockTTL),
		EventBus:       cache.NewEventBus(rdb),
	}, nil
}

// EnsureIndexes creates the collection indexes the repositories rely on
func (a *App) EnsureIndexes(ctx context.Context) error {
	if err := a.FormRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("form indexes: %w", err)
	}
	if err := a.ResponseRepo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("response indexes: %w", err)
	}
	return nil
}

// AnalyticsService is shared by the API and the worker
func (a *App) AnalyticsService() *service.AnalyticsService {
	return service.NewAnalyticsService(a.FormRepo, a.ResponseRepo, a.AnalyticsCache)
}

// OwnerAccounts returns the configured bcrypt accounts, falling back to the
// single OWNER_USERNAME/OWNER_PASSWORD pair hashed at startup.
func (a *App) OwnerAccounts() (map[string]string, error) {
	if len(a.Config.OwnerAccounts) > 0 {
		return a.Config.OwnerAccounts, nil
	}
	log.Warnf("OWNER_ACCOUNTS not set, using single owner %q", a.Config.OwnerUsername)
	hash, err := service.HashPassword(a.Config.OwnerPassword)
	if err != nil {
		return nil, err
	}
	return map[string]string{a.Config.OwnerUsername: hash}, nil
}

func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		log.WithError(err).Warn("redis close failed")
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		log.WithError(err).Warn("mongo disconnect failed")
	}
}
