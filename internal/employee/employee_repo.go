package employee

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	// FindAll returns every employee, newest created first.
	FindAll(ctx context.Context) ([]Employee, error)
	// FindByEmployeeIDs returns all records whose business key is in ids,
	// oldest created first.
	FindByEmployeeIDs(ctx context.Context, ids []string) ([]Employee, error)
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

// conn binds the session to the outer transaction when there is one, so
// writes commit or roll back together with the outbox row.
func (r *repository) conn(ctx context.Context) *gorm.DB {
	db := r.db.WithContext(ctx)
	if r.tx != nil {
		db.Statement.ConnPool = r.tx
	}
	return db
}

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Employee, error) {
	var rows []Employee
	err := r.conn(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByEmployeeIDs(ctx context.Context, ids []string) ([]Employee, error) {
	if len(ids) == 0 {
		return []Employee{}, nil
	}
	var rows []Employee
	err := r.conn(ctx).
		Where("employee_id IN ?", ids).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}
