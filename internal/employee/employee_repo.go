package employee

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupervisorCount struct {
	Supervisor string
	Count      int64
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Create(ctx context.Context, emp *Employee) error
	FindByID(ctx context.Context, id uuid.UUID) (*Employee, error)
	FindByEmail(ctx context.Context, email string) (*Employee, error)
	// FindByPhone returns the employee owning the given phone number, if any.
	FindByPhone(ctx context.Context, phone string) (*Employee, error)
	List(ctx context.Context, supervisor, search string, offset, limit int) ([]Employee, int64, error)
	Update(ctx context.Context, emp *Employee) error
	// DeleteCascade removes the employee together with their ledger, leave
	// history and refresh tokens. Must run inside a transaction.
	DeleteCascade(ctx context.Context, id uuid.UUID) error
	SupervisorCounts(ctx context.Context) ([]SupervisorCount, error)
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

func (r *repository) Create(ctx context.Context, emp *Employee) error {
	if r.tx != nil {
		phones, err := json.Marshal(emp.PhoneNumbers)
		if err != nil {
			return err
		}
		_, err = r.tx.ExecContext(ctx, `
			INSERT INTO employees (id, name, email, password_hash, phone_numbers, supervisor, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		`, emp.ID, emp.Name, emp.Email, emp.PasswordHash, phones, emp.Supervisor)
		return err
	}
	return r.db.WithContext(ctx).Create(emp).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).First(&emp, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Employee, error) {
	var emp Employee
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) FindByPhone(ctx context.Context, phone string) (*Employee, error) {
	needle, err := json.Marshal([]string{phone})
	if err != nil {
		return nil, err
	}

	var emp Employee
	err = r.db.WithContext(ctx).
		Where("phone_numbers @> ?", string(needle)).
		First(&emp).Error
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *repository) List(ctx context.Context, supervisor, search string, offset, limit int) ([]Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&Employee{})
	if supervisor != "" {
		q = q.Where("supervisor = ?", supervisor)
	}
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var emps []Employee
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&emps).Error
	return emps, total, err
}

func (r *repository) Update(ctx context.Context, emp *Employee) error {
	return r.db.WithContext(ctx).Save(emp).Error
}

func (r *repository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	if r.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	statements := []string{
		`DELETE FROM leave_requests WHERE employee_id = $1`,
		`DELETE FROM leave_balances WHERE employee_id = $1`,
		`DELETE FROM refresh_tokens WHERE principal_id = $1`,
		`DELETE FROM employees WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := r.tx.ExecContext(ctx, stmt, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) SupervisorCounts(ctx context.Context) ([]SupervisorCount, error) {
	var counts []SupervisorCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT supervisor, COUNT(*) AS count
		FROM employees
		GROUP BY supervisor
	`).Scan(&counts).Error
	return counts, err
}
