package config

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"smart-collab/configs"
	"smart-collab/internal/api/v1/handlers"
	"smart-collab/internal/auth"
	"smart-collab/internal/cache"
	"smart-collab/internal/repository"
	"smart-collab/internal/scheduler"
	"smart-collab/internal/service"
	"smart-collab/internal/session"
	"smart-collab/internal/storage"
	myws "smart-collab/internal/websocket"
	"smart-collab/pkg/database"
	"smart-collab/pkg/logger"
)

// Dependencies is everything the server needs, built once at startup.
type Dependencies struct {
	DB          *sqlx.DB
	RedisClient *redis.Client
	Cache       cache.Cache
	Objects     *storage.Local
	Bus         *session.Bus
	Hub         *myws.Hub
	Handler     *handlers.Handler
	Scheduler   *scheduler.Scheduler
	Sweeper     *scheduler.Sweeper
}

// Build connects the stores described by cfg and wires the services on top.
// Redis is optional; without REDIS_HOST an in-process cache is used.
func Build(ctx context.Context, cfg configs.Config) (*Dependencies, error) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := repository.CreateTableIfNotExists(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	logger.SystemLogger.Info("Database Connected", zap.String("driver", cfg.DBDriver))

	d := &Dependencies{DB: db}

	if cfg.RedisHost != "" {
		client, err := database.ConnectRedis(ctx, cfg)
		if err != nil {
			db.Close()
			return nil, err
		}
		d.RedisClient = client
		d.Cache = cache.NewRedis(client)
		logger.SystemLogger.Info("Redis Connected", zap.String("host", cfg.RedisHost))
	} else {
		d.Cache = cache.NewMemory()
		logger.SystemLogger.Info("REDIS_HOST not set, using in-memory cache")
	}

	d.Objects, err = storage.NewLocal(cfg.StorageDir, cfg.PublicBaseURL)
	if err != nil {
		d.Close()
		return nil, err
	}

	store := repository.NewStore(db)
	d.Bus = session.NewBus()
	d.Hub = myws.NewHub(d.Bus)

	members := service.NewMembershipService(store)
	d.Handler = &handlers.Handler{
		Identity: service.NewIdentityService(store, auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL), d.Cache, d.Bus),
		Members:  members,
		Projects: service.NewProjectService(store, members, d.Cache, d.Objects),
		Tasks:    service.NewTaskService(store, members),
		Files:    service.NewFileService(store, members, d.Objects, cfg.MaxUploadBytes),
		Objects:  d.Objects,
	}

	d.Sweeper = scheduler.NewSweeper(store, d.Objects, cfg.OrphanGrace)
	d.Scheduler = scheduler.New()
	if cfg.SweepInterval > 0 {
		if _, err := d.Scheduler.Every(cfg.SweepInterval, d.Sweeper.Job(ctx)); err != nil {
			d.Close()
			return nil, fmt.Errorf("scheduling orphan sweep: %w", err)
		}
	}

	return d, nil
}

// Close releases the database and Redis connections.
func (d *Dependencies) Close() {
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			logger.ErrorLogger.Error("Error closing redis", zap.Error(err))
		}
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			logger.ErrorLogger.Error("Error closing database", zap.Error(err))
		}
	}
}
