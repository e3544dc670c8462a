package consumer

import (
	"context"
	"encoding/json"

	"go-emp-mgmt/internal/events"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ReportInvalidator drops cached monthly reports. summary.Service satisfies it.
type ReportInvalidator interface {
	InvalidateForDate(ctx context.Context, date string) error
	InvalidateReports(ctx context.Context) error
}

// ConsumeSummaryInvalidations drops cached reports after attendance_marked and
// employee_registered events. The API already deletes the keys when it
// writes; a report fill that read the stores before that write can store a
// stale result afterwards, and this later delete removes it.
func ConsumeSummaryInvalidations(
	ctx context.Context,
	reader messageReader,
	invalidator ReportInvalidator,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.summary_invalidation")
	log.Info("summary invalidation consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("summary invalidation consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		switch msg.Topic {
		case events.EmployeeLifecycleTopic:
			handleEmployeeRegistered(ctx, reader, invalidator, log, msg)
		default:
			handleAttendanceMarked(ctx, reader, invalidator, log, msg)
		}
	}
}

func handleAttendanceMarked(
	ctx context.Context,
	reader messageReader,
	invalidator ReportInvalidator,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.AttendanceMarkedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode attendance_marked event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}

	if err := invalidator.InvalidateForDate(ctx, event.Date); err != nil {
		// Left uncommitted so the group redelivers after a restart.
		log.Error("invalidate summary report failed",
			zap.String("employee_id", event.EmployeeID),
			zap.String("date", event.Date),
			zap.Error(err),
		)
		return
	}

	commit(ctx, reader, log, msg)
	log.Debug("summary report invalidated from attendance_marked event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("date", event.Date),
		zap.String("request_id", event.RequestID),
	)
}

func handleEmployeeRegistered(
	ctx context.Context,
	reader messageReader,
	invalidator ReportInvalidator,
	log *zap.Logger,
	msg kafkago.Message,
) {
	var event events.EmployeeRegisteredEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("decode employee_registered event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		_ = reader.CommitMessages(ctx, msg)
		return
	}
	if event.EventType != events.EmployeeRegisteredType {
		commit(ctx, reader, log, msg)
		return
	}

	if err := invalidator.InvalidateReports(ctx); err != nil {
		log.Error("invalidate summary reports failed",
			zap.String("employee_id", event.EmployeeID),
			zap.Error(err),
		)
		return
	}

	commit(ctx, reader, log, msg)
	log.Debug("summary reports invalidated from employee_registered event",
		zap.String("employee_id", event.EmployeeID),
		zap.String("request_id", event.RequestID),
	)
}

func commit(ctx context.Context, reader messageReader, log *zap.Logger, msg kafkago.Message) {
	if err := reader.CommitMessages(ctx, msg); err != nil {
		log.Error("commit message failed", zap.String("topic", msg.Topic), zap.Error(err))
	}
}
