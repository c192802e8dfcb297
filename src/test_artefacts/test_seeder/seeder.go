// Package test_seeder prepares Postgres state for integration suites.
package test_seeder

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"domaintracker/src/helper/env"
	"domaintracker/src/infra/postgres"
)

// DatabaseConfig reads the TEST_DB_* variables. It reports false when
// TEST_DB_HOST is unset, in which case Postgres suites skip.
func DatabaseConfig() (postgres.Config, bool) {
	host := env.GetString("TEST_DB_HOST", "")
	if host == "" {
		return postgres.Config{}, false
	}
	return postgres.Config{
		Host:     host,
		Port:     env.GetString("TEST_DB_PORT", "5432"),
		Database: env.MustGetString("TEST_DB_NAME"),
		User:     env.MustGetString("TEST_DB_USER"),
		Password: env.MustGetString("TEST_DB_PASSWORD"),
		MaxConns: env.GetInt("TEST_DB_MAX_POOL_CONNECTIONS", 5),
	}, true
}

type TestSeeder struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) TestSeeder {
	return TestSeeder{pool: pool}
}

// TruncateTables empties the graph and resets its id sequences so keys are
// predictable within a test.
func (ts TestSeeder) TruncateTables(ctx context.Context) {
	if _, err := ts.pool.Exec(ctx, "TRUNCATE TABLE edges, entities RESTART IDENTITY CASCADE"); err != nil {
		panic(fmt.Sprintf("Seeder.TruncateTables failed: %v", err))
	}
}
