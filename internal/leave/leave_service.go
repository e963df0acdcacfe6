package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/blaze-nyan/brillar-lms/internal/events"
	leaveerrors "github.com/blaze-nyan/brillar-lms/internal/leave/errors"
	"github.com/blaze-nyan/brillar-lms/internal/messaging/kafka"
	"github.com/blaze-nyan/brillar-lms/internal/shared/contextutil"
	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

const (
	statisticsCacheKey = "leave:statistics"
	statisticsCacheTTL = 60 * time.Second
)

type RequestLeaveResponse struct {
	Request LeaveRequestResponse `json:"request"`
	Balance BalanceResponse      `json:"balance"`
}

type Service interface {
	GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error)
	RequestLeave(ctx context.Context, employeeID string, req RequestLeaveRequest) (RequestLeaveResponse, error)
	History(ctx context.Context, employeeID string, page, limit int) (HistoryResponse, error)
	Cancel(ctx context.Context, employeeID, requestID string) (BalanceResponse, error)
	Reset(ctx context.Context, actorID, employeeID string, req ResetBalanceRequest) (BalanceResponse, error)
	Adjust(ctx context.Context, actorID, employeeID string, req AdjustBalanceRequest) (BalanceResponse, error)
	ListBalances(ctx context.Context, supervisor string, page, limit int) (AdminBalanceListResponse, error)
	Statistics(ctx context.Context) (StatisticsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
		now:    time.Now,
	}
}

func (s *service) GetBalance(ctx context.Context, employeeID string) (BalanceResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		s.logger.Error("get balance employee lookup failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	bal, err := s.repo.EnsureBalance(ctx, empID)
	if err != nil {
		s.logger.Error("ensure balance failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return BalanceResponse{}, err
	}

	return toBalanceResponse(bal), nil
}

func (s *service) RequestLeave(
	ctx context.Context,
	employeeID string,
	req RequestLeaveRequest,
) (RequestLeaveResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return RequestLeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !IsValidType(req.LeaveType) {
		return RequestLeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	if req.Days < 1 {
		return RequestLeaveResponse{}, leaveerrors.ErrInvalidDays
	}
	startDate, endDate, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return RequestLeaveResponse{}, err
	}

	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		return RequestLeaveResponse{}, err
	}
	if !exists {
		return RequestLeaveResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("request leave begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return RequestLeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	bal, err := qtx.EnsureBalance(ctx, empID)
	if err != nil {
		s.logger.Error("request leave ensure balance failed", zap.Error(err))
		return RequestLeaveResponse{}, err
	}

	bucket := bal.Bucket(req.LeaveType)
	if bucket.Remaining < req.Days {
		return RequestLeaveResponse{}, leaveerrors.InsufficientBalance(req.LeaveType, bucket.Remaining, req.Days)
	}

	// The conditional update re-checks the floor at write time; losing the
	// race to a concurrent debit shows up as zero rows affected, not as a
	// negative balance.
	debited, err := qtx.DebitBalance(ctx, empID, req.LeaveType, req.Days)
	if err != nil {
		s.logger.Error("request leave debit failed", zap.Error(err))
		return RequestLeaveResponse{}, err
	}
	if !debited {
		s.logger.Warn("request leave rejected by concurrent debit",
			zap.String("employee_id", employeeID),
			zap.String("leave_type", req.LeaveType),
		)
		// The pre-checked remaining is stale once the conditional update
		// loses; re-read so the message reports what is actually left.
		available := max(0, bucket.Remaining-req.Days)
		if current, rerr := qtx.FindByEmployee(ctx, empID); rerr == nil {
			available = current.Bucket(req.LeaveType).Remaining
		}
		return RequestLeaveResponse{}, leaveerrors.InsufficientBalance(req.LeaveType, available, req.Days)
	}

	if err := qtx.SetCurrentLeave(ctx, empID, req.LeaveType, startDate, endDate, req.Days); err != nil {
		return RequestLeaveResponse{}, err
	}

	now := s.now().UTC()
	entry := &LeaveRequest{
		ID:           uuid.New(),
		BalanceID:    bal.ID,
		EmployeeID:   empID,
		LeaveType:    req.LeaveType,
		StartDate:    startDate,
		EndDate:      endDate,
		Days:         req.Days,
		Reason:       req.Reason,
		Status:       StatusApproved,
		AppliedDate:  now,
		ApprovedDate: &now,
		ApprovedBy:   AutoApprover,
	}
	if err := qtx.CreateRequest(ctx, entry); err != nil {
		s.logger.Error("request leave persist failed", zap.Error(err))
		return RequestLeaveResponse{}, err
	}

	if err := s.appendLedgerEvent(ctx, tx, events.LeaveLedgerEvent{
		EventType:  events.LedgerEventLeaveRequested,
		EmployeeID: employeeID,
		LeaveType:  req.LeaveType,
		Days:       req.Days,
		ActorID:    employeeID,
		OccurredAt: now,
	}, rid, entry.ID.String()); err != nil {
		return RequestLeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("request leave commit failed", zap.String("request_id", rid), zap.Error(err))
		return RequestLeaveResponse{}, err
	}

	s.logger.Info("leave request approved",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("days", req.Days),
	)

	updated, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		return RequestLeaveResponse{}, err
	}
	return RequestLeaveResponse{
		Request: toRequestResponse(entry),
		Balance: toBalanceResponse(updated),
	}, nil
}

func (s *service) History(ctx context.Context, employeeID string, page, limit int) (HistoryResponse, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return HistoryResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	requests, total, err := s.repo.HistoryPage(ctx, empID, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("leave history failed", zap.String("employee_id", employeeID), zap.Error(err))
		return HistoryResponse{}, err
	}

	resp := HistoryResponse{
		Requests:   make([]LeaveRequestResponse, len(requests)),
		Pagination: response.NewPagination(total, page, limit),
	}
	for i := range requests {
		resp.Requests[i] = toRequestResponse(&requests[i])
	}
	return resp, nil
}

// Cancel honours the pending-only rule. Requests are born approved, so in the
// current flow every live entry is rejected here; the refund branch below
// stays for the day the status model grows a real pending state.
func (s *service) Cancel(ctx context.Context, employeeID, requestID string) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidRequestID
	}

	entry, err := s.repo.FindRequest(ctx, empID, reqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BalanceResponse{}, leaveerrors.ErrRequestNotFound
		}
		return BalanceResponse{}, err
	}

	priorStatus := entry.Status
	if priorStatus != StatusPending {
		return BalanceResponse{}, leaveerrors.ErrOnlyPendingCancellable
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// The status guard re-runs inside the transaction: a concurrent cancel
	// that committed after our read leaves zero rows to flip here.
	flipped, err := qtx.UpdateRequestStatus(ctx, reqID, StatusPending, StatusCancelled)
	if err != nil {
		s.logger.Error("cancel request update failed", zap.Error(err))
		return BalanceResponse{}, err
	}
	if !flipped {
		return BalanceResponse{}, leaveerrors.ErrOnlyPendingCancellable
	}

	if priorStatus == StatusApproved {
		if err := qtx.CreditBalance(ctx, empID, entry.LeaveType, entry.Days); err != nil {
			s.logger.Error("cancel request refund failed", zap.Error(err))
			return BalanceResponse{}, err
		}
	}

	if err := s.appendLedgerEvent(ctx, tx, events.LeaveLedgerEvent{
		EventType:  events.LedgerEventLeaveCancelled,
		EmployeeID: employeeID,
		LeaveType:  entry.LeaveType,
		Days:       entry.Days,
		ActorID:    employeeID,
		OccurredAt: s.now().UTC(),
	}, rid, requestID); err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("leave request cancelled",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_request_id", requestID),
	)

	bal, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return toBalanceResponse(bal), nil
}

func (s *service) Reset(
	ctx context.Context,
	actorID, employeeID string,
	req ResetBalanceRequest,
) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	annual := DefaultAnnualTotal
	sick := DefaultSickTotal
	casual := DefaultCasualTotal
	if req.Annual != nil {
		annual = *req.Annual
	}
	if req.Sick != nil {
		sick = *req.Sick
	}
	if req.Casual != nil {
		casual = *req.Casual
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.EnsureBalance(ctx, empID); err != nil {
		return BalanceResponse{}, err
	}
	if err := qtx.ResetBalance(ctx, empID, annual, sick, casual); err != nil {
		s.logger.Error("reset balance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := s.appendLedgerEvent(ctx, tx, events.LeaveLedgerEvent{
		EventType:  events.LedgerEventBalanceReset,
		EmployeeID: employeeID,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}, rid, employeeID); err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("leave balance reset",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("actor_id", actorID),
	)

	bal, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return toBalanceResponse(bal), nil
}

func (s *service) Adjust(
	ctx context.Context,
	actorID, employeeID string,
	req AdjustBalanceRequest,
) (BalanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return BalanceResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	if !IsValidType(req.LeaveType) {
		return BalanceResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	exists, err := s.repo.EmployeeExists(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}
	if !exists {
		return BalanceResponse{}, leaveerrors.ErrEmployeeNotFound
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BalanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.EnsureBalance(ctx, empID); err != nil {
		return BalanceResponse{}, err
	}
	if err := qtx.AdjustBalance(ctx, empID, req.LeaveType, req.Adjustment); err != nil {
		s.logger.Error("adjust balance failed", zap.String("employee_id", employeeID), zap.Error(err))
		return BalanceResponse{}, err
	}

	if err := s.appendLedgerEvent(ctx, tx, events.LeaveLedgerEvent{
		EventType:  events.LedgerEventBalanceAdjusted,
		EmployeeID: employeeID,
		LeaveType:  req.LeaveType,
		Days:       req.Adjustment,
		ActorID:    actorID,
		OccurredAt: s.now().UTC(),
	}, rid, employeeID); err != nil {
		return BalanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return BalanceResponse{}, err
	}

	s.logger.Info("leave balance adjusted",
		zap.String("request_id", rid),
		zap.String("employee_id", employeeID),
		zap.String("leave_type", req.LeaveType),
		zap.Int("adjustment", req.Adjustment),
		zap.String("reason", req.Reason),
	)

	bal, err := s.repo.FindByEmployee(ctx, empID)
	if err != nil {
		return BalanceResponse{}, err
	}
	return toBalanceResponse(bal), nil
}

func (s *service) ListBalances(ctx context.Context, supervisor string, page, limit int) (AdminBalanceListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	rows, total, err := s.repo.ListBalances(ctx, supervisor, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("list balances failed", zap.Error(err))
		return AdminBalanceListResponse{}, err
	}

	resp := AdminBalanceListResponse{
		Balances:   make([]AdminBalanceResponse, len(rows)),
		Pagination: response.NewPagination(total, page, limit),
	}
	for i, row := range rows {
		resp.Balances[i] = toAdminBalanceResponse(row)
	}
	return resp, nil
}

func (s *service) Statistics(ctx context.Context) (StatisticsResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statisticsCacheKey).Result(); err == nil {
			var resp StatisticsResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(statisticsCacheKey, func() (interface{}, error) {
		resp, err := s.computeStatistics(ctx)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, statisticsCacheKey, jsonData, statisticsCacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return StatisticsResponse{}, err
	}
	return v.(StatisticsResponse), nil
}

func (s *service) computeStatistics(ctx context.Context) (StatisticsResponse, error) {
	totalUsers, err := s.repo.CountEmployees(ctx)
	if err != nil {
		return StatisticsResponse{}, err
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	onLeave, err := s.repo.CountOnLeave(ctx, today)
	if err != nil {
		return StatisticsResponse{}, err
	}

	usage, err := s.repo.UsageTotals(ctx)
	if err != nil {
		return StatisticsResponse{}, err
	}

	bySupervisor, err := s.repo.UsageBySupervisor(ctx)
	if err != nil {
		return StatisticsResponse{}, err
	}

	// Trailing six calendar months including the current one, zero-filled so
	// quiet months still show up in the trend.
	firstMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -5, 0)
	monthly, err := s.repo.MonthlyApproved(ctx, firstMonth)
	if err != nil {
		return StatisticsResponse{}, err
	}

	counts := make(map[[2]int]int, len(monthly))
	for _, m := range monthly {
		counts[[2]int{m.Year, m.Month}] = m.Count
	}
	trend := make([]MonthlyTrendResponse, 0, 6)
	for i := 0; i < 6; i++ {
		m := firstMonth.AddDate(0, i, 0)
		trend = append(trend, MonthlyTrendResponse{
			Month: m.Month().String()[:3],
			Count: counts[[2]int{m.Year(), int(m.Month())}],
		})
	}

	supervisors := make([]SupervisorStatResponse, len(bySupervisor))
	for i, u := range bySupervisor {
		supervisors[i] = SupervisorStatResponse{
			Supervisor:     u.Supervisor,
			TotalLeaveUsed: u.TotalLeaveUsed,
		}
	}

	return StatisticsResponse{
		TotalUsers:   totalUsers,
		UsersOnLeave: onLeave,
		LeaveStatistics: map[string]TypeUsageResponse{
			TypeAnnual: {AverageUsed: usage.AvgAnnualUsed, TotalUsed: usage.TotalAnnualUsed},
			TypeSick:   {AverageUsed: usage.AvgSickUsed, TotalUsed: usage.TotalSickUsed},
			TypeCasual: {AverageUsed: usage.AvgCasualUsed, TotalUsed: usage.TotalCasualUsed},
		},
		SupervisorStatistics: supervisors,
		MonthlyTrend:         trend,
	}, nil
}

func (s *service) appendLedgerEvent(
	ctx context.Context,
	tx *sql.Tx,
	event events.LeaveLedgerEvent,
	rid, aggregateID string,
) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal ledger event failed", zap.String("request_id", rid), zap.Error(err))
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_ledger",
		AggregateID:   aggregateID,
		EventType:     event.EventType,
		Topic:         events.LeaveLedgerTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("ledger event outbox persist failed",
			zap.String("event_type", event.EventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	if startDate.After(endDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return startDate, endDate, nil
}
