package postgres

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/equipsight/equipsight/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultMaxConns           = 20
	defaultMinConns           = 0
	defaultHealthCheckPeriod  = 30 * time.Second
	defaultConnectTimeout     = 5 * time.Second
	defaultPingTimeout        = 3 * time.Second
	defaultHealthCheckTimeout = 1 * time.Second
)

// Store is the concrete PostgreSQL driver backed by pgxpool.Pool.
// It intentionally does not leak pgx types through its public API.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore initializes the pgx pool using the provided config and performs a
// health check.
func NewStore(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres: config is required")
	}
	poolCfg, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: new pool: %w", err)
	}
	pingTimeout := defaultPingTimeout
	if cfg.PingTimeout > 0 {
		pingTimeout = cfg.PingTimeout
	}
	if err := verifyPoolConnection(ctx, pool, pingTimeout); err != nil {
		return nil, err
	}
	logStoreInitialization(ctx, cfg, poolCfg.MaxConns, poolCfg.MinConns)
	return &Store{pool: pool}, nil
}

// Close shuts down the connection pool.
func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	logger.FromContext(ctx).Info("Postgres store closed")
	return nil
}

// Pool exposes the internal pool for driver-local usage. Do not export pgx
// types through higher layers; keep them local to the driver.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// HealthCheck verifies the connection is alive.
func (s *Store) HealthCheck(ctx context.Context) error {
	hctx, cancel := context.WithTimeout(ctx, defaultHealthCheckTimeout)
	defer cancel()
	if err := s.pool.Ping(hctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

// buildPoolConfig parses the DSN and applies pool settings.
func buildPoolConfig(cfg *Config) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("postgres: parse config: %w", err)
	}
	maxConns, minConns := deriveConnectionBounds(cfg)
	poolCfg.MaxConns = maxConns
	poolCfg.MinConns = minConns
	if cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	} else {
		poolCfg.HealthCheckPeriod = defaultHealthCheckPeriod
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	} else {
		poolCfg.ConnConfig.ConnectTimeout = defaultConnectTimeout
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.ConnMaxIdleTime
	}
	return poolCfg, nil
}

// deriveConnectionBounds computes max/min connections respecting defaults and limits.
func deriveConnectionBounds(cfg *Config) (int32, int32) {
	maxConns := int32(defaultMaxConns)
	if cfg.MaxOpenConns > 0 {
		if cfg.MaxOpenConns > int(math.MaxInt32) {
			maxConns = math.MaxInt32
		} else {
			maxConns = int32(cfg.MaxOpenConns)
		}
	}
	minConns := int32(defaultMinConns)
	if cfg.MaxIdleConns > 0 && cfg.MaxIdleConns <= int(maxConns) {
		minConns = int32(cfg.MaxIdleConns)
	}
	if minConns > maxConns {
		minConns = maxConns
	}
	return maxConns, minConns
}

// verifyPoolConnection pings the pool and cleans up on failure.
func verifyPoolConnection(ctx context.Context, pool *pgxpool.Pool, pingTimeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// logStoreInitialization emits a standardized initialization message.
func logStoreInitialization(ctx context.Context, cfg *Config, maxConns int32, minConns int32) {
	logger.FromContext(ctx).With(
		"store_driver", "postgres",
		"host", cfg.Host,
		"port", cfg.Port,
		"db_name", cfg.DBName,
		"ssl_mode", cfg.SSLMode,
		"max_conns", maxConns,
		"min_conns", minConns,
	).Info("Store initialized")
}
