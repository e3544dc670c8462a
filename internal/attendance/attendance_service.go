package attendance

import (
	"context"
	"database/sql"
	"time"

	attendanceerrors "go-emp-mgmt/internal/attendance/errors"
	"go-emp-mgmt/internal/events"
	"go-emp-mgmt/internal/messaging/kafka"
	"go-emp-mgmt/internal/shared/contextutil"
	"go-emp-mgmt/internal/shared/dbtx"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error)
}

// ReportInvalidator drops cached summaries that a write to date may affect.
type ReportInvalidator interface {
	InvalidateForDate(ctx context.Context, date string) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	publisher   kafka.Publisher
	invalidator ReportInvalidator
	logger      *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	publisher kafka.Publisher,
	invalidator ReportInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	if publisher == nil {
		publisher = kafka.NewNoopPublisher()
	}
	return &service{
		db:          db,
		repo:        repo,
		publisher:   publisher,
		invalidator: invalidator,
		logger:      l,
	}
}

// Mark creates the (employeeId, date) record or overwrites its status.
func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger).With(
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)

	if req.EmployeeID == "" || req.Date == "" || req.Status == "" {
		return AttendanceResponse{}, attendanceerrors.ErrMissingRequiredFields
	}
	if ParseStatus(req.Status) == StatusUnrecognized {
		log.Warn("attendance status not recognized, stored verbatim", zap.String("status", req.Status))
	}

	row := &Attendance{
		ID:           uuid.New(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Date:         req.Date,
		Status:       req.Status,
	}

	var stored *Attendance
	err := dbtx.Run(ctx, s.db, s.repo, func(tx *sql.Tx, repo Repository) error {
		var err error
		stored, err = repo.Upsert(ctx, row)
		if err != nil {
			log.Error("attendance upsert failed", zap.Error(err))
			return mapRepositoryError(err)
		}

		msg, err := kafka.NewMessage(
			events.AttendanceMarkedTopic,
			"attendance",
			stored.ID.String(),
			events.AttendanceMarkedType,
			rid,
			events.AttendanceMarkedEvent{
				EventType:  events.AttendanceMarkedType,
				RequestID:  rid,
				RecordID:   stored.ID.String(),
				EmployeeID: stored.EmployeeID,
				Date:       stored.Date,
				Status:     stored.Status,
				OccurredAt: time.Now().UTC(),
			},
		)
		if err != nil {
			return err
		}
		if err := s.publisher.Publish(ctx, tx, msg); err != nil {
			log.Error("attendance publish event failed", zap.Error(err))
			return err
		}
		return nil
	})
	if err != nil {
		return AttendanceResponse{}, err
	}

	if s.invalidator != nil {
		if err := s.invalidator.InvalidateForDate(ctx, stored.Date); err != nil {
			log.Warn("summary cache invalidation failed", zap.Error(err))
		}
	}

	log.Info("attendance marked",
		zap.String("record_id", stored.ID.String()),
		zap.String("status", stored.Status),
	)
	return mapToResponse(*stored), nil
}

// GetByDate matches the stored date string exactly.
func (s *service) GetByDate(ctx context.Context, date string) ([]AttendanceResponse, error) {
	rows, err := s.repo.FindByDate(ctx, date)
	if err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("find attendance by date failed",
			zap.String("date", date),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	res := make([]AttendanceResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func mapToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:           a.ID.String(),
		EmployeeID:   a.EmployeeID,
		EmployeeName: a.EmployeeName,
		Date:         a.Date,
		Status:       a.Status,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
