package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-emp-mgmt/internal/attendance"
	"go-emp-mgmt/internal/employee"
	"go-emp-mgmt/internal/shared/contextutil"
	"go-emp-mgmt/internal/shared/storeerr"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL = 5 * time.Minute
	fillLockTTL     = 10 * time.Second

	reportKeyPattern = "summary:report:*"
	scanBatch        = 100
)

type Service interface {
	MonthlyReport(ctx context.Context, month, year string) ([]ReportRow, error)
	ExportReport(ctx context.Context, month, year string) ([]byte, error)
	InvalidateForDate(ctx context.Context, date string) error
	InvalidateReports(ctx context.Context) error
}

type service struct {
	attendanceRepo attendance.Repository
	employeeRepo   employee.Repository
	rdb            *redis.Client
	locker         *redislock.Client
	ttl            time.Duration
	sf             *singleflight.Group
	tracer         trace.Tracer
	logger         *zap.Logger
}

// NewService builds the summary service over explicit store handles. rdb and
// locker are optional; without rdb every request reads the stores.
func NewService(
	attendanceRepo attendance.Repository,
	employeeRepo employee.Repository,
	rdb *redis.Client,
	locker *redislock.Client,
	ttl time.Duration,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("summary.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("summary.service")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &service{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		rdb:            rdb,
		locker:         locker,
		ttl:            ttl,
		sf:             &singleflight.Group{},
		tracer:         otel.Tracer("go-emp-mgmt/summary"),
		logger:         l,
	}
}

func ReportCacheKey(month, year int) string {
	return fmt.Sprintf("summary:report:%d:%02d", year, month)
}

func (s *service) MonthlyReport(ctx context.Context, month, year string) ([]ReportRow, error) {
	ctx, span := s.tracer.Start(ctx, "summary.MonthlyReport", trace.WithAttributes(
		attribute.String("summary.month", month),
		attribute.String("summary.year", year),
	))
	defer span.End()

	log := contextutil.GetLogger(ctx, s.logger)
	log.Info("summary report query parameters",
		zap.String("month", month),
		zap.String("year", year),
	)

	m, okMonth := ParseQueryInt(month)
	y, okYear := ParseQueryInt(year)
	if !okMonth || !okYear {
		// a NaN month or year matches no record
		return []ReportRow{}, nil
	}

	start, end := MonthWindow(m, y)
	log.Debug("summary report window", zap.Time("start", start), zap.Time("end", end))

	key := ReportCacheKey(m, y)
	if rows, ok := s.readCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("summary.cache_hit", true))
		return rows, nil
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		return s.fill(ctx, key, m, y)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "summary report failed")
		log.Error("summary report failed", zap.Error(err))
		return nil, err
	}
	return v.([]ReportRow), nil
}

// fill computes the report and stores it. When a lock client is configured
// only one instance computes a given month at a time; the others wait briefly
// and then read what it stored.
func (s *service) fill(ctx context.Context, key string, month, year int) ([]ReportRow, error) {
	if s.locker != nil {
		lock, err := s.locker.Obtain(ctx, "lock:"+key, fillLockTTL, &redislock.Options{
			RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(50*time.Millisecond), 20),
		})
		switch {
		case err == nil:
			defer func() {
				if err := lock.Release(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
					s.logger.Warn("summary fill lock release failed", zap.String("key", key), zap.Error(err))
				}
			}()
			if rows, ok := s.readCache(ctx, key); ok {
				return rows, nil
			}
		case errors.Is(err, redislock.ErrNotObtained):
			s.logger.Debug("summary fill lock busy, computing without it", zap.String("key", key))
		default:
			s.logger.Warn("summary fill lock unavailable", zap.String("key", key), zap.Error(err))
		}
	}

	rows, err := s.compute(ctx, month, year)
	if err != nil {
		return nil, err
	}
	s.writeCache(ctx, key, rows)
	return rows, nil
}

func (s *service) compute(ctx context.Context, month, year int) ([]ReportRow, error) {
	ctx, span := s.tracer.Start(ctx, "summary.compute")
	defer span.End()

	records, err := s.attendanceRepo.FindAll(ctx)
	if err != nil {
		return nil, storeerr.Classify(err)
	}

	groups := Tally(month, year, records)
	if len(groups) == 0 {
		return []ReportRow{}, nil
	}

	employees, err := s.employeeRepo.FindByEmployeeIDs(ctx, GroupIDs(groups))
	if err != nil {
		return nil, storeerr.Classify(err)
	}

	rows := Join(groups, employees)
	span.SetAttributes(
		attribute.Int("summary.records", len(records)),
		attribute.Int("summary.groups", len(groups)),
		attribute.Int("summary.rows", len(rows)),
	)
	return rows, nil
}

func (s *service) ExportReport(ctx context.Context, month, year string) ([]byte, error) {
	rows, err := s.MonthlyReport(ctx, month, year)
	if err != nil {
		return nil, err
	}

	title := "Attendance summary"
	m, okMonth := ParseQueryInt(month)
	y, okYear := ParseQueryInt(year)
	if okMonth && okYear {
		start, _ := MonthWindow(m, y)
		title = fmt.Sprintf("%s %s", title, start.Format("January 2006"))
	}

	f, err := RenderXLSX(title, rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// InvalidateForDate drops the cached report for the month date falls in.
// Unparseable dates never appear in a report, so there is nothing to drop.
func (s *service) InvalidateForDate(ctx context.Context, date string) error {
	if s.rdb == nil {
		return nil
	}
	t, ok := ParseRecordDate(date)
	if !ok {
		return nil
	}
	key := ReportCacheKey(int(t.Month()), t.Year())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("invalidate %s: %w", key, err)
	}
	return nil
}

// InvalidateReports drops every cached month. A new employee can complete a
// group in any month, so there is no narrower key set.
func (s *service) InvalidateReports(ctx context.Context) error {
	if s.rdb == nil {
		return nil
	}
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, reportKeyPattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("scan %s: %w", reportKeyPattern, err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("invalidate reports: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (s *service) readCache(ctx context.Context, key string) ([]ReportRow, bool) {
	if s.rdb == nil {
		return nil, false
	}
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("summary cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var rows []ReportRow
	if err := json.Unmarshal([]byte(cached), &rows); err != nil || rows == nil {
		return nil, false
	}
	return rows, true
}

func (s *service) writeCache(ctx context.Context, key string, rows []ReportRow) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("summary cache write failed", zap.String("key", key), zap.Error(err))
	}
}
