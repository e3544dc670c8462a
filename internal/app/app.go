package app

import (
	"context"
	"net/http"

	"go-emp-mgmt/internal/config"
	"go-emp-mgmt/internal/messaging/kafka"
	"go-emp-mgmt/internal/messaging/kafka/producer"
	"go-emp-mgmt/internal/shared/connection"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the record store and the optional cache and broker, then
// registers every route on router. The returned func releases connections.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	ctx := context.Background()
	logger := zap.L().Named("app")
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	store, err := openRecordStore(ctx, cfg)
	if err != nil {
		return cleanup, err
	}
	closers = append(closers, store.close)

	var (
		rdb    *redis.Client
		locker *redislock.Client
	)
	if cfg.RedisAddr != "" {
		rdb, locker, err = connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxRetries)
		if err != nil {
			return cleanup, err
		}
		closers = append(closers, func() { _ = rdb.Close() })
	} else {
		logger.Info("REDIS_ADDR not set, caching disabled")
	}

	publisher, closePublisher, err := buildPublisher(cfg, store)
	if err != nil {
		return cleanup, err
	}
	closers = append(closers, closePublisher)

	registerModules(router, cfg, moduleDeps{
		store:     store,
		rdb:       rdb,
		locker:    locker,
		publisher: publisher,
		logger:    zap.L(),
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return cleanup, nil
}

// buildPublisher queues events in the outbox when the store is SQL. For
// MongoDB it writes to Kafka directly, or drops events when no broker is set.
func buildPublisher(cfg config.Config, store *recordStore) (kafka.Publisher, func(), error) {
	if store.outbox != nil {
		return kafka.NewOutboxPublisher(store.outbox), func() {}, nil
	}
	if cfg.KafkaBroker == "" {
		zap.L().Named("app").Info("KAFKA_BROKER not set, domain events disabled")
		return kafka.NewNoopPublisher(), func() {}, nil
	}

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.MaxRetries)
	if err != nil {
		return nil, nil, err
	}
	return producer.NewDirectPublisher(writer), func() { _ = writer.Close() }, nil
}
