package events

import "time"

const LeaveLedgerTopic = "lms.leave.ledger.v1"

const (
	LedgerEventLeaveRequested  = "leave.requested"
	LedgerEventLeaveCancelled  = "leave.cancelled"
	LedgerEventBalanceReset    = "balance.reset"
	LedgerEventBalanceAdjusted = "balance.adjusted"
)

// LeaveLedgerEvent is emitted for every ledger mutation, through the
// transactional outbox, so downstream consumers see exactly the committed
// transactions.
type LeaveLedgerEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	LeaveType  string    `json:"leave_type,omitempty"`
	Days       int       `json:"days,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
