package leave

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	leaveerrors "github.com/blaze-nyan/brillar-lms/internal/leave/errors"
)

// fakeLeaveRepo keeps one ledger in memory and mirrors the SQL arithmetic of
// the real repository, so service tests exercise the balance invariants.
type fakeLeaveRepo struct {
	bal            *LeaveBalance
	requests       map[uuid.UUID]*LeaveRequest
	employeeExists bool

	debitOverride func(leaveType string, days int) (bool, error)

	totalEmployees  int64
	onLeave         int64
	usage           UsageTotals
	supervisorUsage []SupervisorUsage
	monthly         []MonthlyCount
}

func newFakeLeaveRepo() *fakeLeaveRepo {
	return &fakeLeaveRepo{
		requests:       make(map[uuid.UUID]*LeaveRequest),
		employeeExists: true,
	}
}

func (f *fakeLeaveRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeLeaveRepo) EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.employeeExists, nil
}

func (f *fakeLeaveRepo) EnsureBalance(ctx context.Context, id uuid.UUID) (*LeaveBalance, error) {
	if f.bal == nil {
		f.bal = &LeaveBalance{
			ID:              uuid.New(),
			EmployeeID:      id,
			AnnualTotal:     DefaultAnnualTotal,
			AnnualRemaining: DefaultAnnualTotal,
			SickTotal:       DefaultSickTotal,
			SickRemaining:   DefaultSickTotal,
			CasualTotal:     DefaultCasualTotal,
			CasualRemaining: DefaultCasualTotal,
			UpdatedAt:       time.Now().UTC(),
		}
	}
	copied := *f.bal
	return &copied, nil
}

func (f *fakeLeaveRepo) FindByEmployee(ctx context.Context, id uuid.UUID) (*LeaveBalance, error) {
	if f.bal == nil {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *f.bal
	return &copied, nil
}

func (f *fakeLeaveRepo) DebitBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) (bool, error) {
	if f.debitOverride != nil {
		return f.debitOverride(leaveType, days)
	}
	b := f.bal
	switch leaveType {
	case TypeAnnual:
		if b.AnnualRemaining < days {
			return false, nil
		}
		b.AnnualUsed += days
		b.AnnualRemaining = b.AnnualTotal - b.AnnualUsed
	case TypeSick:
		if b.SickRemaining < days {
			return false, nil
		}
		b.SickUsed += days
		b.SickRemaining = b.SickTotal - b.SickUsed
	case TypeCasual:
		if b.CasualRemaining < days {
			return false, nil
		}
		b.CasualUsed += days
		b.CasualRemaining = b.CasualTotal - b.CasualUsed
	}
	return true, nil
}

func (f *fakeLeaveRepo) CreditBalance(ctx context.Context, id uuid.UUID, leaveType string, days int) error {
	b := f.bal
	switch leaveType {
	case TypeAnnual:
		b.AnnualUsed = max(0, b.AnnualUsed-days)
		b.AnnualRemaining = b.AnnualTotal - b.AnnualUsed
	case TypeSick:
		b.SickUsed = max(0, b.SickUsed-days)
		b.SickRemaining = b.SickTotal - b.SickUsed
	case TypeCasual:
		b.CasualUsed = max(0, b.CasualUsed-days)
		b.CasualRemaining = b.CasualTotal - b.CasualUsed
	}
	return nil
}

func (f *fakeLeaveRepo) SetCurrentLeave(ctx context.Context, id uuid.UUID, leaveType string, start, end time.Time, days int) error {
	f.bal.CurrentLeaveType = &leaveType
	f.bal.CurrentLeaveStart = &start
	f.bal.CurrentLeaveEnd = &end
	f.bal.CurrentLeaveDays = days
	return nil
}

func (f *fakeLeaveRepo) ResetBalance(ctx context.Context, id uuid.UUID, annual, sick, casual int) error {
	b := f.bal
	b.AnnualTotal, b.AnnualUsed, b.AnnualRemaining = annual, 0, annual
	b.SickTotal, b.SickUsed, b.SickRemaining = sick, 0, sick
	b.CasualTotal, b.CasualUsed, b.CasualRemaining = casual, 0, casual
	b.CurrentLeaveType = nil
	b.CurrentLeaveStart = nil
	b.CurrentLeaveEnd = nil
	b.CurrentLeaveDays = 0
	return nil
}

func (f *fakeLeaveRepo) AdjustBalance(ctx context.Context, id uuid.UUID, leaveType string, delta int) error {
	b := f.bal
	adjust := func(total, remaining *int) {
		*remaining = max(0, *remaining+delta)
		if delta > 0 {
			*total += delta
		}
	}
	switch leaveType {
	case TypeAnnual:
		adjust(&b.AnnualTotal, &b.AnnualRemaining)
	case TypeSick:
		adjust(&b.SickTotal, &b.SickRemaining)
	case TypeCasual:
		adjust(&b.CasualTotal, &b.CasualRemaining)
	}
	return nil
}

func (f *fakeLeaveRepo) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	copied := *req
	f.requests[req.ID] = &copied
	return nil
}

func (f *fakeLeaveRepo) FindRequest(ctx context.Context, employeeID, requestID uuid.UUID) (*LeaveRequest, error) {
	req, ok := f.requests[requestID]
	if !ok || req.EmployeeID != employeeID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *req
	return &copied, nil
}

func (f *fakeLeaveRepo) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, from, to string) (bool, error) {
	req, ok := f.requests[requestID]
	if !ok || req.Status != from {
		return false, nil
	}
	req.Status = to
	return true, nil
}

func (f *fakeLeaveRepo) HistoryPage(ctx context.Context, employeeID uuid.UUID, offset, limit int) ([]LeaveRequest, int64, error) {
	var all []LeaveRequest
	for _, req := range f.requests {
		if req.EmployeeID == employeeID {
			all = append(all, *req)
		}
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (f *fakeLeaveRepo) ListBalances(ctx context.Context, supervisor string, offset, limit int) ([]BalanceRow, int64, error) {
	return nil, 0, nil
}

func (f *fakeLeaveRepo) CountEmployees(ctx context.Context) (int64, error) { return f.totalEmployees, nil }
func (f *fakeLeaveRepo) CountOnLeave(ctx context.Context, today time.Time) (int64, error) {
	return f.onLeave, nil
}
func (f *fakeLeaveRepo) UsageTotals(ctx context.Context) (UsageTotals, error) { return f.usage, nil }
func (f *fakeLeaveRepo) UsageBySupervisor(ctx context.Context) ([]SupervisorUsage, error) {
	return f.supervisorUsage, nil
}
func (f *fakeLeaveRepo) MonthlyApproved(ctx context.Context, since time.Time) ([]MonthlyCount, error) {
	return f.monthly, nil
}

func assertInvariant(t *testing.T, b *LeaveBalance) {
	t.Helper()
	for _, bucket := range []Balance{b.Bucket(TypeAnnual), b.Bucket(TypeSick), b.Bucket(TypeCasual)} {
		assert.GreaterOrEqual(t, bucket.Used, 0)
		assert.LessOrEqual(t, bucket.Used, bucket.Total)
		assert.Equal(t, bucket.Total-bucket.Used, bucket.Remaining)
	}
}

func newTestService(t *testing.T, repo Repository) (Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	return NewService(db, repo, nil), mock, func() { db.Close() }
}

func TestService_RequestLeaveDebitsAndAutoApproves(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RequestLeave(context.Background(), employeeID.String(), RequestLeaveRequest{
		LeaveType: TypeAnnual,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Days:      3,
		Reason:    "family trip",
	})
	assert.NoError(t, err)

	assert.Equal(t, StatusApproved, resp.Request.Status)
	assert.NotNil(t, resp.Request.ApprovedBy)
	assert.Equal(t, AutoApprover, *resp.Request.ApprovedBy)
	assert.NotNil(t, resp.Request.ApprovedDate)

	assert.Equal(t, 3, resp.Balance.Annual.Used)
	assert.Equal(t, DefaultAnnualTotal-3, resp.Balance.Annual.Remaining)
	assert.NotNil(t, resp.Balance.CurrentLeave)
	assert.Equal(t, TypeAnnual, resp.Balance.CurrentLeave.LeaveType)
	assert.Equal(t, "2025-03-10", resp.Balance.CurrentLeave.StartDate)

	assertInvariant(t, repo.bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RequestLeaveInsufficientBalance(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()

	// Drain annual down to 3 remaining.
	repo.bal = &LeaveBalance{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		AnnualTotal:     DefaultAnnualTotal,
		AnnualUsed:      7,
		AnnualRemaining: 3,
		SickTotal:       DefaultSickTotal,
		SickRemaining:   DefaultSickTotal,
		CasualTotal:     DefaultCasualTotal,
		CasualRemaining: DefaultCasualTotal,
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.RequestLeave(context.Background(), employeeID.String(), RequestLeaveRequest{
		LeaveType: TypeAnnual,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-14",
		Days:      5,
		Reason:    "too long",
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Available: 3 days, Requested: 5 days")

	// Rejected request leaves the ledger untouched.
	assert.Equal(t, 7, repo.bal.AnnualUsed)
	assert.Equal(t, 3, repo.bal.AnnualRemaining)
	assert.Empty(t, repo.requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RequestLeaveConcurrentOverdrawRejected(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	// Pre-read passes but the conditional update loses the race: a
	// concurrent writer drained the bucket between check and write.
	repo.debitOverride = func(leaveType string, days int) (bool, error) {
		repo.bal.CasualUsed = repo.bal.CasualTotal
		repo.bal.CasualRemaining = 0
		return false, nil
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.RequestLeave(context.Background(), uuid.New().String(), RequestLeaveRequest{
		LeaveType: TypeCasual,
		StartDate: "2025-06-02",
		EndDate:   "2025-06-03",
		Days:      2,
		Reason:    "appointment",
	})
	assert.Error(t, err)
	// The message reports the re-read remaining, not the stale pre-check
	// arithmetic (which would claim 3 here).
	assert.Contains(t, err.Error(), "Insufficient casual leave balance. Available: 0 days, Requested: 2 days")
	assert.Empty(t, repo.requests)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RequestLeaveValidation(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, _, done := newTestService(t, repo)
	defer done()

	base := RequestLeaveRequest{
		LeaveType: TypeAnnual,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Days:      3,
		Reason:    "trip",
	}

	req := base
	req.LeaveType = "unpaid"
	_, err := svc.RequestLeave(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidLeaveType)

	req = base
	req.StartDate = "10-03-2025"
	_, err = svc.RequestLeave(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateFormat)

	req = base
	req.StartDate, req.EndDate = "2025-03-12", "2025-03-10"
	_, err = svc.RequestLeave(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)

	req = base
	req.Days = 0
	_, err = svc.RequestLeave(context.Background(), uuid.New().String(), req)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidDays)

	_, err = svc.RequestLeave(context.Background(), "not-a-uuid", base)
	assert.ErrorIs(t, err, leaveerrors.ErrInvalidEmployeeID)

	repo.employeeExists = false
	_, err = svc.RequestLeave(context.Background(), uuid.New().String(), base)
	assert.ErrorIs(t, err, leaveerrors.ErrEmployeeNotFound)
}

// Requests are created already approved, so the pending-only cancel rule
// rejects every entry the current flow can produce.
func TestService_CancelApprovedRequestRejected(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.RequestLeave(context.Background(), employeeID.String(), RequestLeaveRequest{
		LeaveType: TypeAnnual,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Days:      3,
		Reason:    "trip",
	})
	assert.NoError(t, err)

	_, err = svc.Cancel(context.Background(), employeeID.String(), resp.Request.ID)
	assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingCancellable)

	// Nothing was refunded.
	assert.Equal(t, 3, repo.bal.AnnualUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CancelPendingRequest(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()
	_, err := repo.EnsureBalance(context.Background(), employeeID)
	assert.NoError(t, err)

	// A pending entry cannot arise through RequestLeave today; seed one
	// directly to pin down the transition that is specified for it.
	requestID := uuid.New()
	repo.requests[requestID] = &LeaveRequest{
		ID:         requestID,
		BalanceID:  repo.bal.ID,
		EmployeeID: employeeID,
		LeaveType:  TypeSick,
		Days:       2,
		Status:     StatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Cancel(context.Background(), employeeID.String(), requestID.String())
	assert.NoError(t, err)

	assert.Equal(t, StatusCancelled, repo.requests[requestID].Status)
	// The entry was never approved, so no days come back.
	assert.Equal(t, 0, repo.bal.SickUsed)
	assertInvariant(t, repo.bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// stalePendingRepo reads like a transaction that started before a concurrent
// cancel committed: FindRequest still reports pending while the stored row
// has already moved on.
type stalePendingRepo struct {
	*fakeLeaveRepo
}

func (r *stalePendingRepo) FindRequest(ctx context.Context, employeeID, requestID uuid.UUID) (*LeaveRequest, error) {
	req, err := r.fakeLeaveRepo.FindRequest(ctx, employeeID, requestID)
	if err != nil {
		return nil, err
	}
	req.Status = StatusPending
	return req, nil
}

func TestService_CancelConcurrentCancelFlipsOnce(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, &stalePendingRepo{repo})
	defer done()

	employeeID := uuid.New()
	_, err := repo.EnsureBalance(context.Background(), employeeID)
	assert.NoError(t, err)

	// The other cancel already committed; our pre-check saw pending anyway.
	requestID := uuid.New()
	repo.requests[requestID] = &LeaveRequest{
		ID:         requestID,
		BalanceID:  repo.bal.ID,
		EmployeeID: employeeID,
		LeaveType:  TypeSick,
		Days:       2,
		Status:     StatusCancelled,
	}

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Cancel(context.Background(), employeeID.String(), requestID.String())
	assert.ErrorIs(t, err, leaveerrors.ErrOnlyPendingCancellable)

	// The in-transaction status guard left the row alone.
	assert.Equal(t, StatusCancelled, repo.requests[requestID].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_CancelUnknownRequest(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, _, done := newTestService(t, repo)
	defer done()

	_, err := svc.Cancel(context.Background(), uuid.New().String(), uuid.New().String())
	assert.ErrorIs(t, err, leaveerrors.ErrRequestNotFound)
}

func TestService_AdjustmentAsymmetry(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()
	adminID := uuid.New().String()
	repo.bal = &LeaveBalance{
		ID:              uuid.New(),
		EmployeeID:      employeeID,
		AnnualTotal:     10,
		AnnualUsed:      2,
		AnnualRemaining: 8,
		SickTotal:       DefaultSickTotal,
		SickRemaining:   DefaultSickTotal,
		CasualTotal:     DefaultCasualTotal,
		CasualRemaining: DefaultCasualTotal,
	}

	// A grant raises both remaining and the nominal allowance.
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Adjust(context.Background(), adminID, employeeID.String(), AdjustBalanceRequest{
		LeaveType:  TypeAnnual,
		Adjustment: 5,
		Reason:     "service award",
	})
	assert.NoError(t, err)
	assert.Equal(t, 15, resp.Annual.Total)
	assert.Equal(t, 13, resp.Annual.Remaining)

	// A penalty floors remaining at zero and never shrinks the allowance.
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.Adjust(context.Background(), adminID, employeeID.String(), AdjustBalanceRequest{
		LeaveType:  TypeAnnual,
		Adjustment: -20,
		Reason:     "correction",
	})
	assert.NoError(t, err)
	assert.Equal(t, 15, resp.Annual.Total)
	assert.Equal(t, 0, resp.Annual.Remaining)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResetOverwritesAndClearsCurrentLeave(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.RequestLeave(context.Background(), employeeID.String(), RequestLeaveRequest{
		LeaveType: TypeAnnual,
		StartDate: "2025-03-10",
		EndDate:   "2025-03-12",
		Days:      3,
		Reason:    "trip",
	})
	assert.NoError(t, err)
	assert.NotNil(t, repo.bal.CurrentLeaveType)

	annual, sick, casual := 20, 12, 6
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reset(context.Background(), uuid.New().String(), employeeID.String(), ResetBalanceRequest{
		Annual: &annual,
		Sick:   &sick,
		Casual: &casual,
	})
	assert.NoError(t, err)

	assert.Equal(t, BucketResponse{Total: 20, Used: 0, Remaining: 20}, resp.Annual)
	assert.Equal(t, BucketResponse{Total: 12, Used: 0, Remaining: 12}, resp.Sick)
	assert.Equal(t, BucketResponse{Total: 6, Used: 0, Remaining: 6}, resp.Casual)
	assert.Nil(t, resp.CurrentLeave)
	assertInvariant(t, repo.bal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ResetDefaultsWhenOmitted(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, mock, done := newTestService(t, repo)
	defer done()

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Reset(context.Background(), uuid.New().String(), uuid.New().String(), ResetBalanceRequest{})
	assert.NoError(t, err)
	assert.Equal(t, DefaultAnnualTotal, resp.Annual.Total)
	assert.Equal(t, DefaultSickTotal, resp.Sick.Total)
	assert.Equal(t, DefaultCasualTotal, resp.Casual.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetBalanceCreatesLedgerOnFirstTouch(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, _, done := newTestService(t, repo)
	defer done()

	resp, err := svc.GetBalance(context.Background(), uuid.New().String())
	assert.NoError(t, err)
	assert.Equal(t, BucketResponse{Total: 10, Used: 0, Remaining: 10}, resp.Annual)
	assert.Equal(t, BucketResponse{Total: 14, Used: 0, Remaining: 14}, resp.Sick)
	assert.Equal(t, BucketResponse{Total: 5, Used: 0, Remaining: 5}, resp.Casual)
	assert.Nil(t, resp.CurrentLeave)
	assert.WithinDuration(t, time.Now().UTC(), resp.LastUpdated, time.Minute,
		"balance responses carry the ledger's last write time")
}

func TestService_StatisticsAggregation(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, _, done := newTestService(t, repo)
	defer done()

	now := time.Now().UTC()
	repo.totalEmployees = 12
	repo.onLeave = 2
	repo.usage = UsageTotals{
		AvgAnnualUsed: 2.5, AvgSickUsed: 1.0, AvgCasualUsed: 0.5,
		TotalAnnualUsed: 30, TotalSickUsed: 12, TotalCasualUsed: 6,
	}
	repo.supervisorUsage = []SupervisorUsage{
		{Supervisor: "Dimple", TotalLeaveUsed: 20},
		{Supervisor: "Budiman", TotalLeaveUsed: 8},
	}
	repo.monthly = []MonthlyCount{
		{Year: now.Year(), Month: int(now.Month()), Count: 4},
	}

	resp, err := svc.Statistics(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, int64(12), resp.TotalUsers)
	assert.Equal(t, int64(2), resp.UsersOnLeave)
	assert.Equal(t, 2.5, resp.LeaveStatistics[TypeAnnual].AverageUsed)
	assert.Equal(t, 30, resp.LeaveStatistics[TypeAnnual].TotalUsed)
	assert.Len(t, resp.SupervisorStatistics, 2)

	// Six trailing months, zero-filled, ending with the current month.
	assert.Len(t, resp.MonthlyTrend, 6)
	last := resp.MonthlyTrend[5]
	assert.Equal(t, now.Month().String()[:3], last.Month)
	assert.Equal(t, 4, last.Count)
	for _, m := range resp.MonthlyTrend[:5] {
		assert.Equal(t, 0, m.Count)
	}
}

func TestService_HistoryPagination(t *testing.T) {
	repo := newFakeLeaveRepo()
	svc, _, done := newTestService(t, repo)
	defer done()

	employeeID := uuid.New()
	_, err := repo.EnsureBalance(context.Background(), employeeID)
	assert.NoError(t, err)
	for i := 0; i < 25; i++ {
		id := uuid.New()
		repo.requests[id] = &LeaveRequest{
			ID:         id,
			EmployeeID: employeeID,
			LeaveType:  TypeAnnual,
			Days:       1,
			Status:     StatusApproved,
		}
	}

	resp, err := svc.History(context.Background(), employeeID.String(), 2, 10)
	assert.NoError(t, err)
	assert.Len(t, resp.Requests, 10)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}
