package leave

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FlatRecord is the legacy ledger shape: one remaining-days counter per type
// and a single global leave period. It only exists as migration input; the
// structured LeaveBalance is the sole runtime shape.
type FlatRecord struct {
	AnnualRemaining int
	SickRemaining   int
	CasualRemaining int
	StartDate       *time.Time
	EndDate         *time.Time
}

func (f FlatRecord) validate() error {
	checks := []struct {
		name      string
		remaining int
		max       int
	}{
		{TypeAnnual, f.AnnualRemaining, DefaultAnnualTotal},
		{TypeSick, f.SickRemaining, DefaultSickTotal},
		{TypeCasual, f.CasualRemaining, DefaultCasualTotal},
	}
	for _, c := range checks {
		if c.remaining < 0 || c.remaining > c.max {
			return fmt.Errorf("flat record %s remaining %d out of range [0, %d]", c.name, c.remaining, c.max)
		}
	}
	if (f.StartDate == nil) != (f.EndDate == nil) {
		return fmt.Errorf("flat record has a partial leave period")
	}
	if f.StartDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("flat record leave period starts after it ends")
	}
	return nil
}

// FromFlatRecord lifts a legacy flat row into the structured ledger. The flat
// form never recorded per-type totals, so the defaults stand in as the
// allowance and used is derived from what is left. The single global period
// carries over as the current leave with an unknown type.
func FromFlatRecord(employeeID uuid.UUID, flat FlatRecord) (*LeaveBalance, error) {
	if err := flat.validate(); err != nil {
		return nil, err
	}

	b := &LeaveBalance{
		ID:         uuid.New(),
		EmployeeID: employeeID,

		AnnualTotal:     DefaultAnnualTotal,
		AnnualUsed:      DefaultAnnualTotal - flat.AnnualRemaining,
		AnnualRemaining: flat.AnnualRemaining,

		SickTotal:     DefaultSickTotal,
		SickUsed:      DefaultSickTotal - flat.SickRemaining,
		SickRemaining: flat.SickRemaining,

		CasualTotal:     DefaultCasualTotal,
		CasualUsed:      DefaultCasualTotal - flat.CasualRemaining,
		CasualRemaining: flat.CasualRemaining,
	}

	if flat.StartDate != nil && flat.EndDate != nil {
		b.CurrentLeaveStart = flat.StartDate
		b.CurrentLeaveEnd = flat.EndDate
		b.CurrentLeaveDays = int(flat.EndDate.Sub(*flat.StartDate).Hours()/24) + 1
	}

	return b, nil
}
