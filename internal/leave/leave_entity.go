package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeCasual = "casual"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// Default allowances granted to a fresh ledger.
const (
	DefaultAnnualTotal = 10
	DefaultSickTotal   = 14
	DefaultCasualTotal = 5
)

// AutoApprover is recorded as the approver on requests, which are approved at
// creation without a review step.
const AutoApprover = "Auto-approved"

func IsValidType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual:
		return true
	}
	return false
}

// Balance is one leave-type bucket. The remaining column is always recomputed
// as total - used by every mutation.
type Balance struct {
	Total     int `json:"total"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

// LeaveBalance is the per-employee ledger. Exactly one row per employee,
// created lazily on first touch.
type LeaveBalance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_employee"`

	AnnualTotal     int `gorm:"not null;default:10"`
	AnnualUsed      int `gorm:"not null;default:0"`
	AnnualRemaining int `gorm:"not null;default:10"`

	SickTotal     int `gorm:"not null;default:14"`
	SickUsed      int `gorm:"not null;default:0"`
	SickRemaining int `gorm:"not null;default:14"`

	CasualTotal     int `gorm:"not null;default:5"`
	CasualUsed      int `gorm:"not null;default:0"`
	CasualRemaining int `gorm:"not null;default:5"`

	CurrentLeaveType  *string    `gorm:"type:varchar(20)"`
	CurrentLeaveStart *time.Time `gorm:"type:date"`
	CurrentLeaveEnd   *time.Time `gorm:"type:date"`
	CurrentLeaveDays  int        `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *LeaveBalance) Bucket(leaveType string) Balance {
	switch leaveType {
	case TypeAnnual:
		return Balance{Total: b.AnnualTotal, Used: b.AnnualUsed, Remaining: b.AnnualRemaining}
	case TypeSick:
		return Balance{Total: b.SickTotal, Used: b.SickUsed, Remaining: b.SickRemaining}
	case TypeCasual:
		return Balance{Total: b.CasualTotal, Used: b.CasualUsed, Remaining: b.CasualRemaining}
	}
	return Balance{}
}

// LeaveRequest is one history entry of a ledger. Fields other than Status are
// immutable after creation.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BalanceID  uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_balance"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`

	LeaveType string    `gorm:"type:varchar(20);not null"`
	StartDate time.Time `gorm:"type:date;not null"`
	EndDate   time.Time `gorm:"type:date;not null"`
	Days      int       `gorm:"not null"`
	Reason    string    `gorm:"type:text"`

	Status          string     `gorm:"type:varchar(20);not null;default:'approved';index:idx_leave_requests_status"`
	AppliedDate     time.Time  `gorm:"not null;index:idx_leave_requests_applied"`
	ApprovedDate    *time.Time
	ApprovedBy      string  `gorm:"type:varchar(100)"`
	RejectionReason *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
