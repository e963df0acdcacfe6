package employee

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	employeeerrors "github.com/blaze-nyan/brillar-lms/internal/employee/errors"
	"github.com/blaze-nyan/brillar-lms/internal/leave"
	"github.com/blaze-nyan/brillar-lms/internal/shared/contextutil"
	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

type Service interface {
	GetAll(ctx context.Context, supervisor, search string, page, limit int) (EmployeeListResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeDetailResponse, error)
	Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	Supervisors(ctx context.Context) ([]SupervisorResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	balances leave.Service
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, balances leave.Service, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{db: db, repo: repo, balances: balances, logger: l}
}

func (s *service) GetAll(ctx context.Context, supervisor, search string, page, limit int) (EmployeeListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	emps, total, err := s.repo.List(ctx, supervisor, search, (page-1)*limit, limit)
	if err != nil {
		s.logger.Error("list employees failed", zap.Error(err))
		return EmployeeListResponse{}, MapRepositoryError(err)
	}

	resp := EmployeeListResponse{
		Employees:  make([]EmployeeResponse, len(emps)),
		Pagination: response.NewPagination(total, page, limit),
	}
	for i := range emps {
		resp.Employees[i] = ToResponse(&emps[i])
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeDetailResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeDetailResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		return EmployeeDetailResponse{}, MapRepositoryError(err)
	}

	detail := EmployeeDetailResponse{EmployeeResponse: ToResponse(emp)}

	bal, err := s.balances.GetBalance(ctx, id)
	if err != nil {
		// The detail view is still useful without the ledger.
		s.logger.Warn("get employee ledger failed", zap.String("employee_id", id), zap.Error(err))
	} else {
		detail.LeaveBalance = &bal
	}

	return detail, nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateEmployeeRequest) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(id)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, empID)
	if err != nil {
		return EmployeeResponse{}, MapRepositoryError(err)
	}

	if req.Name != nil {
		emp.Name = *req.Name
	}
	if req.Email != nil {
		emp.Email = NormalizeEmail(*req.Email)
	}
	if req.Supervisor != nil {
		if !IsValidSupervisor(*req.Supervisor) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidSupervisor
		}
		emp.Supervisor = *req.Supervisor
	}
	if req.PhoneNumbers != nil {
		for _, phone := range req.PhoneNumbers {
			owner, err := s.repo.FindByPhone(ctx, phone)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return EmployeeResponse{}, err
			}
			if owner.ID != empID {
				return EmployeeResponse{}, employeeerrors.ErrPhoneAlreadyExists
			}
		}
		emp.PhoneNumbers = req.PhoneNumbers
	}

	if err := s.repo.Update(ctx, emp); err != nil {
		s.logger.Error("update employee failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, MapRepositoryError(err)
	}

	s.logger.Info("employee updated",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)
	return ToResponse(emp), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	rid := contextutil.GetRequestID(ctx)
	empID, err := uuid.Parse(id)
	if err != nil {
		return employeeerrors.ErrInvalidEmployeeID
	}

	if _, err := s.repo.FindByID(ctx, empID); err != nil {
		return MapRepositoryError(err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).DeleteCascade(ctx, empID); err != nil {
		s.logger.Error("delete employee cascade failed",
			zap.String("request_id", rid),
			zap.String("employee_id", id),
			zap.Error(err),
		)
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("employee deleted",
		zap.String("request_id", rid),
		zap.String("employee_id", id),
	)
	return nil
}

func (s *service) Supervisors(ctx context.Context) ([]SupervisorResponse, error) {
	counts, err := s.repo.SupervisorCounts(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]int64, len(counts))
	for _, c := range counts {
		byName[c.Supervisor] = c.Count
	}

	// Fixed enum order, zero-filled for supervisors with no reports yet.
	resp := make([]SupervisorResponse, len(Supervisors))
	for i, name := range Supervisors {
		resp[i] = SupervisorResponse{Name: name, EmployeeCount: byName[name]}
	}
	return resp, nil
}
