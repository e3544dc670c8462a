package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	employeeerrors "go-emp-mgmt/internal/employee/errors"
	"go-emp-mgmt/internal/events"
	"go-emp-mgmt/internal/messaging/kafka"
	"go-emp-mgmt/internal/shared/contextutil"
	"go-emp-mgmt/internal/shared/dbtx"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	EmployeesCacheKey = "employees:all"
	employeesCacheTTL = 10 * time.Minute
)

var joiningDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

type Service interface {
	Register(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context) ([]EmployeeResponse, error)
}

// ReportInvalidator drops cached summaries, which join against employees.
type ReportInvalidator interface {
	InvalidateReports(ctx context.Context) error
}

type service struct {
	db          *sql.DB
	repo        Repository
	publisher   kafka.Publisher
	rdb         *redis.Client
	invalidator ReportInvalidator
	sf          *singleflight.Group
	logger      *zap.Logger
	now         func() time.Time
}

// NewService wires the employee service. db may be nil when the record store
// is MongoDB; publisher, rdb and invalidator may be nil.
func NewService(
	db *sql.DB,
	repo Repository,
	publisher kafka.Publisher,
	rdb *redis.Client,
	invalidator ReportInvalidator,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	if publisher == nil {
		publisher = kafka.NewNoopPublisher()
	}
	return &service{
		db:          db,
		repo:        repo,
		publisher:   publisher,
		rdb:         rdb,
		invalidator: invalidator,
		sf:          &singleflight.Group{},
		logger:      l,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *service) Register(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	log := contextutil.GetLogger(ctx, s.logger)
	log.Debug("register employee requested",
		zap.String("employee_id", req.EmployeeID),
		zap.String("department", req.Department),
	)

	if req.Salary == nil || req.ActiveEmployee == nil {
		return EmployeeResponse{}, employeeerrors.ErrMissingRequiredFields
	}

	now := s.now()
	joiningDate := now
	if strings.TrimSpace(req.JoiningDate) != "" {
		parsed, err := parseJoiningDate(req.JoiningDate)
		if err != nil {
			log.Warn("register employee invalid joiningDate", zap.String("joining_date", req.JoiningDate))
			return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate.WithCause(err)
		}
		joiningDate = parsed
	}

	empl := &Employee{
		ID:             uuid.New(),
		EmployeeID:     req.EmployeeID,
		EmployeeName:   req.EmployeeName,
		Designation:    req.Designation,
		Department:     req.Department,
		Salary:         *req.Salary,
		JoiningDate:    joiningDate,
		DateOfBirth:    req.DateOfBirth,
		ActiveEmployee: *req.ActiveEmployee,
		PhoneNumber:    req.PhoneNumber,
		Address:        req.Address,
		CreatedAt:      now,
	}

	msg, err := kafka.NewMessage(
		events.EmployeeLifecycleTopic,
		"employee",
		empl.ID.String(),
		events.EmployeeRegisteredType,
		rid,
		events.EmployeeRegisteredEvent{
			EventType:  events.EmployeeRegisteredType,
			RequestID:  rid,
			RecordID:   empl.ID.String(),
			EmployeeID: empl.EmployeeID,
			Department: empl.Department,
			OccurredAt: now,
		},
	)
	if err != nil {
		log.Error("marshal employee registered event failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	err = dbtx.Run(ctx, s.db, s.repo, func(tx *sql.Tx, repo Repository) error {
		if err := repo.Create(ctx, empl); err != nil {
			log.Error("register employee persist failed", zap.Error(err))
			return mapRepositoryError(err)
		}
		if err := s.publisher.Publish(ctx, tx, msg); err != nil {
			log.Error("register employee publish event failed",
				zap.String("record_id", empl.ID.String()),
				zap.Error(err),
			)
			return err
		}
		return nil
	})
	if err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateCache(ctx)
	s.invalidateReports(ctx)

	log.Info("register employee success",
		zap.String("request_id", rid),
		zap.String("record_id", empl.ID.String()),
		zap.String("employee_id", empl.EmployeeID),
	)
	return mapToResponse(*empl), nil
}

// GetAll returns employees newest first. An empty store is reported as
// ErrNoEmployees rather than an empty slice.
func (s *service) GetAll(ctx context.Context) ([]EmployeeResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, EmployeesCacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil && len(resp) > 0 {
				return resp, nil
			}
		} else if err != redis.Nil {
			log.Warn("employees cache read failed", zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(EmployeesCacheKey, func() (interface{}, error) {
		rows, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, mapRepositoryError(err)
		}
		resp := mapToListResponse(rows)

		if s.rdb != nil && len(resp) > 0 {
			if data, err := json.Marshal(resp); err == nil {
				if err := s.rdb.Set(ctx, EmployeesCacheKey, data, employeesCacheTTL).Err(); err != nil {
					log.Warn("employees cache write failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		log.Error("get all employees failed", zap.Error(err))
		return nil, err
	}

	resp := v.([]EmployeeResponse)
	if len(resp) == 0 {
		return nil, employeeerrors.ErrNoEmployees
	}
	return resp, nil
}

func (s *service) invalidateCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, EmployeesCacheKey).Err(); err != nil {
		contextutil.GetLogger(ctx, s.logger).Error("failed to invalidate employees cache",
			zap.String("key", EmployeesCacheKey),
			zap.Error(err),
		)
	}
}

func (s *service) invalidateReports(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateReports(ctx); err != nil {
		contextutil.GetLogger(ctx, s.logger).Warn("failed to invalidate summary reports", zap.Error(err))
	}
}

func parseJoiningDate(v string) (time.Time, error) {
	var lastErr error
	for _, layout := range joiningDateLayouts {
		t, err := time.Parse(layout, strings.TrimSpace(v))
		if err == nil {
			return t.UTC(), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID.String(),
		EmployeeID:     e.EmployeeID,
		EmployeeName:   e.EmployeeName,
		Designation:    e.Designation,
		Department:     e.Department,
		Salary:         e.Salary,
		JoiningDate:    e.JoiningDate.UTC().Format(time.RFC3339),
		DateOfBirth:    e.DateOfBirth,
		ActiveEmployee: e.ActiveEmployee,
		PhoneNumber:    e.PhoneNumber,
		Address:        e.Address,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	res := make([]EmployeeResponse, len(rows))
	for i, e := range rows {
		res[i] = mapToResponse(e)
	}
	return res
}
