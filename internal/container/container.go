package container

import (
	"context"
	"fmt"
	"time"

	"dgrsdt/journals/internal/client"
	"dgrsdt/journals/internal/config"
	"dgrsdt/journals/internal/converter"
	"dgrsdt/journals/internal/lookup"
	"dgrsdt/journals/internal/pdftable"
	"dgrsdt/journals/internal/proxy"
	"dgrsdt/journals/internal/repository"
	"dgrsdt/journals/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds the components a command needs. Only the side being used
// is initialized: lookup never touches Postgres or Redis, and conversion
// never tests proxies.
type Container struct {
	Config *config.Config

	Engine    *lookup.Engine
	Converter *converter.Service

	db    *pgxpool.Pool
	redis *redis.Client
}

// NewLookup wires the directory client and the lookup engine
func NewLookup(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	timeout := time.Duration(cfg.Directory.Timeout) * time.Second
	proxySupplier := proxy.NewProxySupplier(ctx, cfg.Directory.Proxies, cfg.Directory.ProxyTestURL, timeout)
	if len(cfg.Directory.Proxies) > 0 && proxySupplier.Len() == 0 {
		log.Warn("⚠️ No configured proxy is working, connecting directly")
	}

	matcher, err := lookup.NewMatcher(cfg.Matcher.Threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize matcher: %w", err)
	}

	directoryClient := client.NewDirectoryClient(cfg.Directory, proxySupplier)
	container.Engine = lookup.NewEngine(directoryClient, matcher, cfg.Directory.SubcategoryOrder())

	return container, nil
}

// NewConverter wires the PDF table converter with its optional Postgres sink
// and Redis progress tracker
func NewConverter(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	var sink repository.TableRepository
	if cfg.Database.Enabled {
		db, err := pgxpool.New(ctx,
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		container.db = db

		if err := db.Ping(ctx); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}

		sink = repository.NewTableRepository(db)
		if err := sink.EnsureSchema(ctx); err != nil {
			container.Close()
			return nil, err
		}
		log.Info("✅ Connected to Postgres successfully")
	}

	var tracker state.ProgressTracker
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})
		container.redis = rdb

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}

		tracker = state.NewRedisProgressTracker(rdb)
		log.Info("✅ Connected to Redis successfully")
	}

	extractor := pdftable.NewExtractor(pdftable.Layout{
		LineTolerance:   cfg.Converter.LineTolerance,
		CellGap:         cfg.Converter.CellGap,
		ColumnTolerance: cfg.Converter.ColumnTolerance,
	})
	container.Converter = converter.NewService(extractor, tracker, sink, cfg.Converter.Workers)

	return container, nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			return fmt.Errorf("failed to close Redis client: %w", err)
		}
	}
	return nil
}
