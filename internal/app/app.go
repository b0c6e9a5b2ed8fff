package app

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/leonid6372/trades-pager/internal/common/config"
	"github.com/leonid6372/trades-pager/internal/common/domain"
	"github.com/leonid6372/trades-pager/internal/common/repositories/postgres"
	"github.com/leonid6372/trades-pager/internal/session"
	"github.com/leonid6372/trades-pager/internal/store"
	"github.com/leonid6372/trades-pager/migrations"
	"github.com/leonid6372/trades-pager/pkg/goosemigrate"
	"github.com/leonid6372/trades-pager/pkg/log"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// App holds the connections shared by the binaries.
type App struct {
	Pool     *pgxpool.Pool
	Redis    *redis.Client
	Trades   domain.TradesRepository
	Sessions *session.Manager
}

// New connects to postgres, applies migrations and builds the session manager. Rows of open
// sessions are kept in redis when it is enabled and in process memory otherwise.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{}

	log.Info("init postgres...")
	pool, err := pgxpool.New(ctx, cfg.GetPostgresURL())
	if err != nil {
		return nil, fmt.Errorf("postgres init failed: %w", err)
	}
	a.Pool = pool

	if err := goosemigrate.NewMigrator(cfg.GetPostgresURL(), migrations.FS, cfg.Postgres.Schema).Up(); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrations up failed: %w", err)
	}

	a.Trades = postgres.NewTradesRepository(pool)

	newStore := func(_, account string) store.Store {
		return store.NewWindow(a.Trades, account)
	}

	if cfg.Redis.Enabled {
		log.Info("init redis...", zap.String("addr", cfg.Redis.Addr))

		a.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		if err := a.Redis.Ping(ctx).Err(); err != nil {
			a.Close()
			return nil, fmt.Errorf("redis ping failed: %w", err)
		}

		newStore = func(sessionID, account string) store.Store {
			return store.NewRedisWindow(a.Redis, sessionID, cfg.Pagination.SessionTTL, a.Trades, account)
		}
	}

	a.Sessions = session.NewManager(a.Trades, newStore, session.Options{
		ItemsPerPage: cfg.Pagination.ItemsPerPage,
		BatchSize:    cfg.Pagination.BatchSize,
		LoadTimeout:  cfg.Pagination.LoadTimeout,
	}, cfg.Pagination.SessionTTL)

	return a, nil
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Error("redis close failed", zap.Error(err))
		}
	}

	if a.Pool != nil {
		a.Pool.Close()
	}
}
