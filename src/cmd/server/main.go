package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/graph-gophers/graphql-go"
	"go.uber.org/fx"

	graphqladapter "domaintracker/src/adapters/graphql"
	"domaintracker/src/helper/env"
	"domaintracker/src/infra/postgres"
	"domaintracker/src/infra/redis"
	"domaintracker/src/repositories"
	"domaintracker/src/services/loaders"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting API server with Uber Fx...")

	app := fx.New(
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newConnectionRepository,
			newEntityQueryRepository,
			newCachedEntityRepository,
			newLoadersService,
			newSchema,
			newRouter,
			newServer,
		),

		fx.Invoke(runMigrations, registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newLogger() *slog.Logger {
	var level slog.Level
	switch env.GetString("LOG_LEVEL", "info") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// newReadWriteClient reads from DB_READ_HOST when set, otherwise both
// roles share DB_HOST.
func newReadWriteClient(lc fx.Lifecycle) (*postgres.ReadWriteClient, error) {
	write := postgres.Config{
		Host:     env.GetString("DB_WRITE_HOST", env.GetString("DB_HOST")),
		Port:     env.GetString("DB_WRITE_PORT", env.GetString("DB_PORT", "5432")),
		Database: env.MustGetString("DB_NAME"),
		User:     env.MustGetString("DB_USER"),
		Password: env.MustGetString("DB_PASSWORD"),
		MaxConns: env.GetInt("DB_MAX_POOL_CONNECTIONS", 25),
	}
	read := write
	read.Host = env.GetString("DB_READ_HOST", write.Host)
	read.Port = env.GetString("DB_READ_PORT", env.GetString("DB_PORT", write.Port))

	client, err := postgres.NewReadWriteClient(context.Background(), read, write)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

// newRedisClient returns nil when REDIS_HOSTS is unset, which disables the
// entity cache.
func newRedisClient(lc fx.Lifecycle, logger *slog.Logger) *redis.RedisClient {
	redisHosts := env.GetString("REDIS_HOSTS")
	if redisHosts == "" {
		logger.Warn("REDIS_HOSTS not set, entity cache disabled")
		return nil
	}

	redisPoolSize := env.GetInt("REDIS_POOL_SIZE", 50)
	redisTTL := env.GetSeconds("REDIS_TTL_SECONDS", 2*time.Minute)

	client := redis.NewRedisClient(redisHosts, redisPoolSize, redisTTL)
	lc.Append(fx.StopHook(client.Close))
	return client
}

func newConnectionRepository(readWriteClient *postgres.ReadWriteClient) *repositories.ConnectionRepository {
	return repositories.NewConnectionRepository(readWriteClient.GetReadPool())
}

func newEntityQueryRepository(readWriteClient *postgres.ReadWriteClient) *repositories.EntityQueryRepository {
	return repositories.NewEntityQueryRepository(readWriteClient.GetReadPool())
}

func newCachedEntityRepository(
	logger *slog.Logger,
	entityQueryRepository *repositories.EntityQueryRepository,
	redisClient *redis.RedisClient,
) *repositories.CachedEntityRepository {
	return repositories.NewCachedEntityRepository(logger, entityQueryRepository, redisClient)
}

func newLoadersService(
	logger *slog.Logger,
	connectionRepository *repositories.ConnectionRepository,
	cachedEntityRepository *repositories.CachedEntityRepository,
) *loaders.Service {
	return loaders.NewService(logger, connectionRepository, cachedEntityRepository)
}

func newSchema(logger *slog.Logger, service *loaders.Service) (*graphql.Schema, error) {
	return graphqladapter.NewSchema(logger, graphqladapter.NewResolver(logger, service))
}

func newRouter(
	logger *slog.Logger,
	schema *graphql.Schema,
	service *loaders.Service,
	readWriteClient *postgres.ReadWriteClient,
	redisClient *redis.RedisClient,
) chi.Router {
	healthChecks := map[string]graphqladapter.HealthCheck{
		"postgres": readWriteClient.GetReadPool().Ping,
	}
	if redisClient != nil {
		healthChecks["redis"] = redisClient.HealthCheck
	}

	return graphqladapter.NewRouter(logger, schema, service, graphqladapter.RouterConfig{
		TokenSecret:  []byte(env.MustGetString("AUTH_TOKEN_SECRET")),
		HealthChecks: healthChecks,
	})
}

func newServer(logger *slog.Logger, router chi.Router) *graphqladapter.Server {
	return graphqladapter.NewServer(logger, env.GetInt("SERVER_PORT", 8888), router)
}

func runMigrations(lc fx.Lifecycle, logger *slog.Logger, readWriteClient *postgres.ReadWriteClient) {
	if !env.GetBool("MIGRATIONS_AUTO", false) {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Applying migrations")
			return postgres.Migrate(ctx, readWriteClient.GetWritePool())
		},
	})
}

func registerServerHooks(lc fx.Lifecycle, logger *slog.Logger, srv *graphqladapter.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", "error", err)
				return err
			}
			logger.Info("Server exited gracefully")
			return nil
		},
	})
}
