package postgres

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config addresses one Postgres server.
type Config struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
	MaxConns int
}

func (c Config) connString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     c.Host + ":" + c.Port,
		Path:     "/" + c.Database,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

func (c Config) sameServer(other Config) bool {
	return c.Host == other.Host && c.Port == other.Port && c.Database == other.Database
}

func NewPostgresClient(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.connString())
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPostgresClient - invalid config for %s: %w", cfg.Host, err)
	}

	poolConfig.MaxConns = int32(max(cfg.MaxConns, 1)) //nolint:gosec
	poolConfig.MinConns = 1
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	// statement_timeout bounds a hung loader query; nothing above retries it.
	poolConfig.ConnConfig.RuntimeParams = map[string]string{
		"timezone":                            "UTC",
		"statement_timeout":                   "30s",
		"lock_timeout":                        "10s",
		"idle_in_transaction_session_timeout": "60s",
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres.NewPostgresClient - connect to %s: %w", cfg.Host, err)
	}

	return pool, nil
}
