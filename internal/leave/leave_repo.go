package leave

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// column prefix per leave type; guards the dynamically-built statements
// against anything but the three known buckets.
var typeColumns = map[string]string{
	TypeAnnual: "annual",
	TypeSick:   "sick",
	TypeCasual: "casual",
}

// UsageTotals carries the company-wide per-type usage aggregates.
type UsageTotals struct {
	AvgAnnualUsed   float64
	AvgSickUsed     float64
	AvgCasualUsed   float64
	TotalAnnualUsed int
	TotalSickUsed   int
	TotalCasualUsed int
}

type SupervisorUsage struct {
	Supervisor     string
	TotalLeaveUsed int
}

type MonthlyCount struct {
	Year  int
	Month int
	Count int
}

// BalanceRow is the admin list projection: ledger joined with its owner.
// Employees whose ledger has not been created yet surface with the default
// allowances; the row itself is only written on first employee-scoped touch.
type BalanceRow struct {
	EmployeeID      uuid.UUID
	Name            string
	Email           string
	Supervisor      string
	AnnualTotal     int
	AnnualUsed      int
	AnnualRemaining int
	SickTotal       int
	SickUsed        int
	SickRemaining   int
	CasualTotal     int
	CasualUsed      int
	CasualRemaining int
	LastUpdated     *time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error)
	// EnsureBalance creates the employee's ledger with default allowances if
	// it does not exist yet, then returns it. Safe under concurrent first
	// touch: the insert is an upsert that yields to an existing row.
	EnsureBalance(ctx context.Context, employeeID uuid.UUID) (*LeaveBalance, error)
	FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*LeaveBalance, error)

	// DebitBalance applies the conditional debit used += days and reports
	// whether the floor check (remaining >= days) held at commit time.
	DebitBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days int) (bool, error)
	CreditBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days int) error
	SetCurrentLeave(ctx context.Context, employeeID uuid.UUID, leaveType string, start, end time.Time, days int) error
	ResetBalance(ctx context.Context, employeeID uuid.UUID, annual, sick, casual int) error
	AdjustBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, delta int) error

	CreateRequest(ctx context.Context, req *LeaveRequest) error
	FindRequest(ctx context.Context, employeeID, requestID uuid.UUID) (*LeaveRequest, error)
	// UpdateRequestStatus flips a request from one status to another and
	// reports whether the row was still in the expected prior state, so
	// concurrent transitions cannot both win.
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to string) (bool, error)
	HistoryPage(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]LeaveRequest, int64, error)

	ListBalances(ctx context.Context, supervisor string, offset, limit int) ([]BalanceRow, int64, error)
	CountEmployees(ctx context.Context) (int64, error)
	CountOnLeave(ctx context.Context, today time.Time) (int64, error)
	UsageTotals(ctx context.Context) (UsageTotals, error)
	UsageBySupervisor(ctx context.Context) ([]SupervisorUsage, error)
	MonthlyApproved(ctx context.Context, since time.Time) ([]MonthlyCount, error)
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

type execer interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) execer() execer {
	if r.tx != nil {
		return r.tx
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		panic(err)
	}
	return sqlDB
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Count(&count).Error
	return count > 0, err
}

const balanceColumns = `
	id, employee_id,
	annual_total, annual_used, annual_remaining,
	sick_total, sick_used, sick_remaining,
	casual_total, casual_used, casual_remaining,
	current_leave_type, current_leave_start, current_leave_end, current_leave_days,
	created_at, updated_at`

func scanBalance(row *sql.Row) (*LeaveBalance, error) {
	var b LeaveBalance
	err := row.Scan(
		&b.ID, &b.EmployeeID,
		&b.AnnualTotal, &b.AnnualUsed, &b.AnnualRemaining,
		&b.SickTotal, &b.SickUsed, &b.SickRemaining,
		&b.CasualTotal, &b.CasualUsed, &b.CasualRemaining,
		&b.CurrentLeaveType, &b.CurrentLeaveStart, &b.CurrentLeaveEnd, &b.CurrentLeaveDays,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) EnsureBalance(ctx context.Context, employeeID uuid.UUID) (*LeaveBalance, error) {
	// Upsert-then-read keeps concurrent first touches from creating two
	// ledgers: the losing insert is a no-op and both callers read one row.
	_, err := r.execer().ExecContext(ctx, `
		INSERT INTO leave_balances (
			id, employee_id,
			annual_total, annual_used, annual_remaining,
			sick_total, sick_used, sick_remaining,
			casual_total, casual_used, casual_remaining,
			current_leave_days, created_at, updated_at
		) VALUES ($1, $2, $3, 0, $3, $4, 0, $4, $5, 0, $5, 0, NOW(), NOW())
		ON CONFLICT (employee_id) DO NOTHING
	`, uuid.New(), employeeID, DefaultAnnualTotal, DefaultSickTotal, DefaultCasualTotal)
	if err != nil {
		return nil, err
	}

	return r.FindByEmployee(ctx, employeeID)
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID uuid.UUID) (*LeaveBalance, error) {
	if r.tx != nil {
		row := r.tx.QueryRowContext(ctx,
			`SELECT `+balanceColumns+` FROM leave_balances WHERE employee_id = $1`, employeeID)
		b, err := scanBalance(row)
		if err == sql.ErrNoRows {
			return nil, gorm.ErrRecordNotFound
		}
		return b, err
	}

	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) DebitBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days int) (bool, error) {
	col, ok := typeColumns[leaveType]
	if !ok {
		return false, fmt.Errorf("unknown leave type: %s", leaveType)
	}

	// Atomic decrement with floor check. Zero rows affected means another
	// transaction drained the balance after our pre-read.
	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %[1]s_used = %[1]s_used + $1,
		    %[1]s_remaining = %[1]s_total - (%[1]s_used + $1),
		    updated_at = NOW()
		WHERE employee_id = $2 AND %[1]s_remaining >= $1
	`, col)

	res, err := r.execer().ExecContext(ctx, query, days, employeeID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repository) CreditBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, days int) error {
	col, ok := typeColumns[leaveType]
	if !ok {
		return fmt.Errorf("unknown leave type: %s", leaveType)
	}

	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %[1]s_used = GREATEST(0, %[1]s_used - $1),
		    %[1]s_remaining = %[1]s_total - GREATEST(0, %[1]s_used - $1),
		    updated_at = NOW()
		WHERE employee_id = $2
	`, col)

	_, err := r.execer().ExecContext(ctx, query, days, employeeID)
	return err
}

func (r *repository) SetCurrentLeave(ctx context.Context, employeeID uuid.UUID, leaveType string, start, end time.Time, days int) error {
	_, err := r.execer().ExecContext(ctx, `
		UPDATE leave_balances
		SET current_leave_type = $1,
		    current_leave_start = $2,
		    current_leave_end = $3,
		    current_leave_days = $4,
		    updated_at = NOW()
		WHERE employee_id = $5
	`, leaveType, start, end, days, employeeID)
	return err
}

func (r *repository) ResetBalance(ctx context.Context, employeeID uuid.UUID, annual, sick, casual int) error {
	_, err := r.execer().ExecContext(ctx, `
		UPDATE leave_balances
		SET annual_total = $1, annual_used = 0, annual_remaining = $1,
		    sick_total = $2, sick_used = 0, sick_remaining = $2,
		    casual_total = $3, casual_used = 0, casual_remaining = $3,
		    current_leave_type = NULL,
		    current_leave_start = NULL,
		    current_leave_end = NULL,
		    current_leave_days = 0,
		    updated_at = NOW()
		WHERE employee_id = $4
	`, annual, sick, casual, employeeID)
	return err
}

func (r *repository) AdjustBalance(ctx context.Context, employeeID uuid.UUID, leaveType string, delta int) error {
	col, ok := typeColumns[leaveType]
	if !ok {
		return fmt.Errorf("unknown leave type: %s", leaveType)
	}

	// remaining floors at zero; total grows only on positive adjustments so
	// a penalty never shrinks the nominal allowance.
	query := fmt.Sprintf(`
		UPDATE leave_balances
		SET %[1]s_remaining = GREATEST(0, %[1]s_remaining + $1),
		    %[1]s_total = %[1]s_total + CASE WHEN $1 > 0 THEN $1 ELSE 0 END,
		    updated_at = NOW()
		WHERE employee_id = $2
	`, col)

	_, err := r.execer().ExecContext(ctx, query, delta, employeeID)
	return err
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO leave_requests (
				id, balance_id, employee_id, leave_type, start_date, end_date,
				days, reason, status, applied_date, approved_date, approved_by,
				rejection_reason, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
		`, req.ID, req.BalanceID, req.EmployeeID, req.LeaveType, req.StartDate, req.EndDate,
			req.Days, req.Reason, req.Status, req.AppliedDate, req.ApprovedDate, req.ApprovedBy,
			req.RejectionReason)
		return err
	}
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindRequest(ctx context.Context, employeeID, requestID uuid.UUID) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&req, "id = ?", requestID).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to string) (bool, error) {
	res, err := r.execer().ExecContext(ctx, `
		UPDATE leave_requests SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3
	`, to, requestID, from)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

func (r *repository) HistoryPage(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]LeaveRequest, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var requests []LeaveRequest
	err = r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("applied_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&requests).Error
	return requests, total, err
}

func (r *repository) ListBalances(ctx context.Context, supervisor string, offset, limit int) ([]BalanceRow, int64, error) {
	countQ := r.db.WithContext(ctx).Table("employees")
	if supervisor != "" {
		countQ = countQ.Where("supervisor = ?", supervisor)
	}
	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := r.db.WithContext(ctx).
		Table("employees e").
		Select(`
			e.id AS employee_id, e.name, e.email, e.supervisor,
			COALESCE(b.annual_total, ?) AS annual_total,
			COALESCE(b.annual_used, 0) AS annual_used,
			COALESCE(b.annual_remaining, ?) AS annual_remaining,
			COALESCE(b.sick_total, ?) AS sick_total,
			COALESCE(b.sick_used, 0) AS sick_used,
			COALESCE(b.sick_remaining, ?) AS sick_remaining,
			COALESCE(b.casual_total, ?) AS casual_total,
			COALESCE(b.casual_used, 0) AS casual_used,
			COALESCE(b.casual_remaining, ?) AS casual_remaining,
			b.updated_at AS last_updated`,
			DefaultAnnualTotal, DefaultAnnualTotal,
			DefaultSickTotal, DefaultSickTotal,
			DefaultCasualTotal, DefaultCasualTotal).
		Joins("LEFT JOIN leave_balances b ON b.employee_id = e.id").
		Order("e.created_at DESC").
		Offset(offset).
		Limit(limit)
	if supervisor != "" {
		q = q.Where("e.supervisor = ?", supervisor)
	}

	var rows []BalanceRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *repository) CountEmployees(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("employees").Count(&count).Error
	return count, err
}

func (r *repository) CountOnLeave(ctx context.Context, today time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveBalance{}).
		Where("current_leave_start <= ?", today).
		Where("current_leave_end >= ?", today).
		Count(&count).Error
	return count, err
}

func (r *repository) UsageTotals(ctx context.Context) (UsageTotals, error) {
	var totals UsageTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(AVG(annual_used), 0) AS avg_annual_used,
			COALESCE(AVG(sick_used), 0) AS avg_sick_used,
			COALESCE(AVG(casual_used), 0) AS avg_casual_used,
			COALESCE(SUM(annual_used), 0) AS total_annual_used,
			COALESCE(SUM(sick_used), 0) AS total_sick_used,
			COALESCE(SUM(casual_used), 0) AS total_casual_used
		FROM leave_balances
	`).Scan(&totals).Error
	return totals, err
}

func (r *repository) UsageBySupervisor(ctx context.Context) ([]SupervisorUsage, error) {
	var usage []SupervisorUsage
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			e.supervisor,
			COALESCE(SUM(b.annual_used + b.sick_used + b.casual_used), 0) AS total_leave_used
		FROM employees e
		LEFT JOIN leave_balances b ON b.employee_id = e.id
		GROUP BY e.supervisor
	`).Scan(&usage).Error
	return usage, err
}

func (r *repository) MonthlyApproved(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	var counts []MonthlyCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			EXTRACT(YEAR FROM applied_date)::int AS year,
			EXTRACT(MONTH FROM applied_date)::int AS month,
			COUNT(*)::int AS count
		FROM leave_requests
		WHERE status = ? AND applied_date >= ?
		GROUP BY 1, 2
		ORDER BY 1, 2
	`, StatusApproved, since).Scan(&counts).Error
	return counts, err
}
