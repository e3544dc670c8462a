package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go-emp-mgmt/internal/config"
	"go-emp-mgmt/internal/events"
	"go-emp-mgmt/internal/messaging/kafka/consumer"
	"go-emp-mgmt/internal/shared/connection"
	"go-emp-mgmt/internal/summary"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const attendanceConsumerGroup = "go-emp-mgmt-summary-cache"

// RunConsumer deletes cached summary reports after attendance_marked and
// employee_registered events. The cache is one shared Redis, already cleared
// by the API on write; this second delete removes a report that a fill which
// read the stores before the write stored after it.
func RunConsumer(cfg config.Config) error {
	logger := zap.L().Named("app.consumer")

	if cfg.KafkaBroker == "" {
		return errors.New("KAFKA_BROKER is required")
	}
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	rdb, _, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.MaxRetries)
	if err != nil {
		return err
	}
	defer rdb.Close()

	// Only cache invalidation is used here, so no record store is attached.
	summaryService := summary.NewService(nil, nil, rdb, nil, cfg.SummaryCacheTTL, logger)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.KafkaBroker},
		GroupTopics:    []string{events.AttendanceMarkedTopic, events.EmployeeLifecycleTopic},
		GroupID:        attendanceConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		consumer.ConsumeSummaryInvalidations(ctx, reader, summaryService, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()
	<-done

	return nil
}
