package attendance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert writes a in one atomic statement keyed on (EmployeeID, Date).
	// On conflict only Status and UpdatedAt change. It returns the stored row.
	Upsert(ctx context.Context, a *Attendance) (*Attendance, error)
	FindByDate(ctx context.Context, date string) ([]Attendance, error)
	FindAll(ctx context.Context) ([]Attendance, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Upsert(ctx context.Context, a *Attendance) (*Attendance, error) {
	row := *a
	err := r.conn(ctx).
		Clauses(
			clause.OnConflict{
				Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
			},
			clause.Returning{},
		).
		Create(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindByDate(ctx context.Context, date string) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Where("date = ?", date).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAll(ctx context.Context) ([]Attendance, error) {
	var rows []Attendance
	err := r.conn(ctx).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
