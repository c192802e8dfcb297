package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/fx"

	"domaintracker/src/adapters/kafka/consumers"
	"domaintracker/src/helper/env"
	"domaintracker/src/infra/kafka"
	"domaintracker/src/infra/postgres"
	"domaintracker/src/infra/redis"
	"domaintracker/src/repositories"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting Scan Results Consumer with Uber Fx...")

	app := fx.New(
		fx.Provide(
			newLogger,
			newReadWriteClient,
			newRedisClient,
			newBatchConsumer,
			newCachedEntityRepository,
			newScanWriteRepository,
			newScanResultsConsumer,
		),

		fx.Invoke(startConsumer),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start consumer application: %v", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Println("Shutting down scan results consumer...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()

	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}

	log.Println("Scan results consumer shutdown complete")
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

// newReadWriteClient only needs the primary: the consumer never reads
// through the replica.
func newReadWriteClient(lc fx.Lifecycle) (*postgres.ReadWriteClient, error) {
	primary := postgres.Config{
		Host:     env.GetString("DB_WRITE_HOST", env.GetString("DB_HOST")),
		Port:     env.GetString("DB_WRITE_PORT", env.GetString("DB_PORT", "5432")),
		Database: env.MustGetString("DB_NAME"),
		User:     env.MustGetString("DB_USER"),
		Password: env.MustGetString("DB_PASSWORD"),
		MaxConns: env.GetInt("DB_MAX_POOL_CONNECTIONS", 10),
	}

	client, err := postgres.NewReadWriteClient(context.Background(), primary, primary)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.StopHook(client.Close))
	return client, nil
}

func newRedisClient(logger *slog.Logger) *redis.RedisClient {
	redisHosts := env.GetString("REDIS_HOSTS")
	if redisHosts == "" {
		logger.Warn("REDIS_HOSTS not set, cache invalidation disabled")
		return nil
	}

	redisPoolSize := env.GetInt("REDIS_POOL_SIZE", 10)
	redisTTL := env.GetSeconds("REDIS_TTL_SECONDS", 2*time.Minute)

	return redis.NewRedisClient(redisHosts, redisPoolSize, redisTTL)
}

func newBatchConsumer(logger *slog.Logger) (*kafka.BatchConsumer, error) {
	return kafka.NewBatchConsumer(
		logger,
		kafka.Brokers(env.MustGetString("KAFKA_BROKERS")),
		env.MustGetString("KAFKA_CONSUMER_GROUP_ID"),
		env.GetInt("KAFKA_BATCH_SIZE", 500),
	)
}

// newCachedEntityRepository is only used to invalidate cached domains, so
// it carries no query repository.
func newCachedEntityRepository(logger *slog.Logger, redisClient *redis.RedisClient) *repositories.CachedEntityRepository {
	if redisClient == nil {
		return nil
	}
	return repositories.NewCachedEntityRepository(logger, nil, redisClient)
}

func newScanWriteRepository(
	logger *slog.Logger,
	readWriteClient *postgres.ReadWriteClient,
	cachedEntityRepository *repositories.CachedEntityRepository,
) *repositories.ScanWriteRepository {
	return repositories.NewScanWriteRepository(logger, readWriteClient.GetWritePool(), cachedEntityRepository)
}

func newScanResultsConsumer(
	logger *slog.Logger,
	scanWriteRepository *repositories.ScanWriteRepository,
) *consumers.ScanResultsConsumer {
	return consumers.NewScanResultsConsumer(logger, scanWriteRepository)
}

func startConsumer(
	lc fx.Lifecycle,
	logger *slog.Logger,
	batchConsumer *kafka.BatchConsumer,
	redisClient *redis.RedisClient,
	scanResultsConsumer *consumers.ScanResultsConsumer,
) {
	consumeCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			topic := env.MustGetString("KAFKA_SCAN_RESULTS_TOPIC")

			go func() {
				if err := scanResultsConsumer.Start(consumeCtx, batchConsumer, topic); err != nil {
					logger.Error("Consumer failed", "error", err)
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()

			logger.Info("Leaving Kafka consumer group...")
			if err := batchConsumer.Close(); err != nil {
				logger.Error("Failed to close Kafka consumer", "error", err)
				return err
			}
			if redisClient != nil {
				if err := redisClient.Close(); err != nil {
					logger.Error("Failed to close redis client", "error", err)
				}
			}
			logger.Info("Kafka consumer shut down gracefully")
			return nil
		},
	})
}
