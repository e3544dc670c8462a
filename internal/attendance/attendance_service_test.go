package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	attendanceerrors "go-emp-mgmt/internal/attendance/errors"
	"go-emp-mgmt/internal/events"
	"go-emp-mgmt/internal/messaging/kafka"
	kafkaMock "go-emp-mgmt/internal/messaging/kafka/mock"
	"go-emp-mgmt/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fakeRepo struct {
	withTxFn     func(tx *sql.Tx) Repository
	upsertFn     func(ctx context.Context, a *Attendance) (*Attendance, error)
	findByDateFn func(ctx context.Context, date string) ([]Attendance, error)
	findAllFn    func(ctx context.Context) ([]Attendance, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Upsert(ctx context.Context, a *Attendance) (*Attendance, error) {
	return f.upsertFn(ctx, a)
}
func (f *fakeRepo) FindByDate(ctx context.Context, date string) ([]Attendance, error) {
	return f.findByDateFn(ctx, date)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Attendance, error) { return f.findAllFn(ctx) }

// memoryRepo mimics the unique (employeeId, date) key of the real stores.
func memoryRepo() (*fakeRepo, map[string]*Attendance) {
	store := map[string]*Attendance{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.upsertFn = func(ctx context.Context, a *Attendance) (*Attendance, error) {
		key := a.EmployeeID + "|" + a.Date
		if existing, ok := store[key]; ok {
			existing.Status = a.Status
			existing.UpdatedAt = time.Now().UTC()
			cp := *existing
			return &cp, nil
		}
		row := *a
		row.CreatedAt = time.Now().UTC()
		row.UpdatedAt = row.CreatedAt
		store[key] = &row
		cp := row
		return &cp, nil
	}
	return repo, store
}

type fakeInvalidator struct {
	dates []string
	err   error
}

func (f *fakeInvalidator) InvalidateForDate(ctx context.Context, date string) error {
	f.dates = append(f.dates, date)
	return f.err
}

func TestService_Mark(t *testing.T) {
	t.Run("double submit keeps one record with the last status", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo, store := memoryRepo()
		inv := &fakeInvalidator{}
		svc := NewService(db, repo, kafka.NewNoopPublisher(), inv)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectCommit()
		first, err := svc.Mark(ctx, MarkAttendanceRequest{EmployeeID: "E1", EmployeeName: "Ann", Date: "2024-03-04", Status: "present"})
		assert.NoError(t, err)
		assert.Equal(t, "present", first.Status)

		mock.ExpectBegin()
		mock.ExpectCommit()
		second, err := svc.Mark(ctx, MarkAttendanceRequest{EmployeeID: "E1", EmployeeName: "Someone Else", Date: "2024-03-04", Status: "absent"})
		assert.NoError(t, err)

		assert.Len(t, store, 1)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "absent", second.Status)
		assert.Equal(t, "Ann", second.EmployeeName)
		assert.Equal(t, []string{"2024-03-04", "2024-03-04"}, inv.dates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing fields", func(t *testing.T) {
		repo, _ := memoryRepo()
		svc := NewService(nil, repo, nil, nil)

		cases := []MarkAttendanceRequest{
			{Date: "2024-03-04", Status: "present"},
			{EmployeeID: "E1", Status: "present"},
			{EmployeeID: "E1", Date: "2024-03-04"},
		}
		for _, req := range cases {
			_, err := svc.Mark(context.Background(), req)
			assert.ErrorIs(t, err, attendanceerrors.ErrMissingRequiredFields)
		}
	})

	t.Run("unrecognized status is stored verbatim", func(t *testing.T) {
		repo, store := memoryRepo()
		svc := NewService(nil, repo, nil, nil)

		resp, err := svc.Mark(context.Background(), MarkAttendanceRequest{EmployeeID: "E1", Date: "2024-03-04", Status: "Present"})

		assert.NoError(t, err)
		assert.Equal(t, "Present", resp.Status)
		assert.Equal(t, StatusUnrecognized, store["E1|2024-03-04"].ParsedStatus())
	})

	t.Run("publishes attendance marked in the write transaction", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		ctrl := gomock.NewController(t)
		publisher := kafkaMock.NewMockPublisher(ctrl)

		repo, _ := memoryRepo()
		svc := NewService(db, repo, publisher, nil)

		mock.ExpectBegin()
		mock.ExpectCommit()
		publisher.EXPECT().
			Publish(gomock.Any(), gomock.Not(gomock.Nil()), gomock.Any()).
			DoAndReturn(func(ctx context.Context, tx *sql.Tx, msg kafka.Message) error {
				assert.Equal(t, events.AttendanceMarkedTopic, msg.Topic)
				var ev events.AttendanceMarkedEvent
				assert.NoError(t, json.Unmarshal(msg.Payload, &ev))
				assert.Equal(t, "E1", ev.EmployeeID)
				assert.Equal(t, "2024-03-04", ev.Date)
				assert.Equal(t, "halfday", ev.Status)
				return nil
			})

		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{EmployeeID: "E1", Date: "2024-03-04", Status: "halfday"})

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("publish failure rolls back", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()
		ctrl := gomock.NewController(t)
		publisher := kafkaMock.NewMockPublisher(ctrl)

		repo, _ := memoryRepo()
		inv := &fakeInvalidator{}
		svc := NewService(db, repo, publisher, inv)

		mock.ExpectBegin()
		mock.ExpectRollback()
		publisher.EXPECT().Publish(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))

		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{EmployeeID: "E1", Date: "2024-03-04", Status: "present"})

		assert.Error(t, err)
		assert.Empty(t, inv.dates)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalidation failure does not fail the write", func(t *testing.T) {
		repo, _ := memoryRepo()
		inv := &fakeInvalidator{err: errors.New("redis down")}
		svc := NewService(nil, repo, nil, inv)

		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{EmployeeID: "E1", Date: "2024-03-04", Status: "present"})

		assert.NoError(t, err)
		assert.Len(t, inv.dates, 1)
	})

	t.Run("store unreachable", func(t *testing.T) {
		repo := &fakeRepo{
			upsertFn: func(ctx context.Context, a *Attendance) (*Attendance, error) {
				return nil, context.DeadlineExceeded
			},
		}
		svc := NewService(nil, repo, nil, nil)

		_, err := svc.Mark(context.Background(), MarkAttendanceRequest{EmployeeID: "E1", Date: "2024-03-04", Status: "present"})

		assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	})
}

func TestService_GetByDate(t *testing.T) {
	t.Run("returns matching records", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{
			findByDateFn: func(ctx context.Context, date string) ([]Attendance, error) {
				assert.Equal(t, "2024-03-04", date)
				return []Attendance{{ID: id, EmployeeID: "E1", Date: date, Status: "present"}}, nil
			},
		}
		svc := NewService(nil, repo, nil, nil)

		resp, err := svc.GetByDate(context.Background(), "2024-03-04")

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Equal(t, id.String(), resp[0].ID)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		repo := &fakeRepo{
			findByDateFn: func(ctx context.Context, date string) ([]Attendance, error) {
				return nil, nil
			},
		}
		svc := NewService(nil, repo, nil, nil)

		resp, err := svc.GetByDate(context.Background(), "2024-3-4")

		assert.NoError(t, err)
		assert.NotNil(t, resp)
		assert.Empty(t, resp)
	})

	t.Run("repo error", func(t *testing.T) {
		repo := &fakeRepo{
			findByDateFn: func(ctx context.Context, date string) ([]Attendance, error) {
				return nil, errors.New("boom")
			},
		}
		svc := NewService(nil, repo, nil, nil)

		_, err := svc.GetByDate(context.Background(), "2024-03-04")

		assert.Error(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusPresent, ParseStatus("present"))
	assert.Equal(t, StatusAbsent, ParseStatus("absent"))
	assert.Equal(t, StatusHalfday, ParseStatus("halfday"))
	assert.Equal(t, StatusHoliday, ParseStatus("holiday"))
	assert.Equal(t, StatusUnrecognized, ParseStatus("Present"))
	assert.Equal(t, StatusUnrecognized, ParseStatus("HALFDAY"))
	assert.Equal(t, StatusUnrecognized, ParseStatus(""))
	assert.Equal(t, "halfday", StatusHalfday.String())
}
