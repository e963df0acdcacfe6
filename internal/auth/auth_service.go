package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/blaze-nyan/brillar-lms/internal/auth/errors"
	"github.com/blaze-nyan/brillar-lms/internal/employee"
	employeeerrors "github.com/blaze-nyan/brillar-lms/internal/employee/errors"
	"github.com/blaze-nyan/brillar-lms/internal/leave"
	"github.com/blaze-nyan/brillar-lms/internal/session"
	"github.com/blaze-nyan/brillar-lms/internal/shared/contextutil"
)

const (
	employeeBcryptCost = 10
	adminBcryptCost    = 12
)

type Service interface {
	RegisterEmployee(ctx context.Context, req RegisterRequest) (AuthResponse, error)
	LoginEmployee(ctx context.Context, email, password string) (AuthResponse, error)
	LoginAdmin(ctx context.Context, email, password string) (AuthResponse, error)
	Refresh(ctx context.Context, refreshToken, role string) (AuthResponse, error)
	Logout(ctx context.Context, principalID, role, refreshToken string, allDevices bool) error
	EmployeeProfile(ctx context.Context, id string) (employee.EmployeeResponse, error)
	UpdateEmployeeProfile(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error)
	AdminProfile(ctx context.Context, id string) (AdminResponse, error)
	// EnsureAdmin provisions the admin principal from ADMIN_EMAIL and
	// ADMIN_PASSWORD. Runs at startup, before the server accepts traffic.
	EnsureAdmin(ctx context.Context) error
}

type service struct {
	employeeRepo employee.Repository
	employees    employee.Service
	adminRepo    AdminRepository
	sessions     session.Service
	balances     leave.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	employeeRepo employee.Repository,
	employees employee.Service,
	adminRepo AdminRepository,
	sessions session.Service,
	balances leave.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		employeeRepo: employeeRepo,
		employees:    employees,
		adminRepo:    adminRepo,
		sessions:     sessions,
		balances:     balances,
		logger:       l,
		now:          time.Now,
	}
}

func (s *service) RegisterEmployee(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !employee.IsValidSupervisor(req.Supervisor) {
		return AuthResponse{}, employeeerrors.ErrInvalidSupervisor
	}

	req.Email = employee.NormalizeEmail(req.Email)
	if _, err := s.employeeRepo.FindByEmail(ctx, req.Email); err == nil {
		return AuthResponse{}, employeeerrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AuthResponse{}, err
	}

	for _, phone := range req.PhoneNumbers {
		if _, err := s.employeeRepo.FindByPhone(ctx, phone); err == nil {
			return AuthResponse{}, employeeerrors.ErrPhoneAlreadyExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return AuthResponse{}, err
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), employeeBcryptCost)
	if err != nil {
		return AuthResponse{}, err
	}

	emp := &employee.Employee{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hashed),
		PhoneNumbers: req.PhoneNumbers,
		Supervisor:   req.Supervisor,
	}
	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		s.logger.Error("register employee persist failed", zap.String("request_id", rid), zap.Error(err))
		return AuthResponse{}, employee.MapRepositoryError(err)
	}

	// Eager ledger creation so the first balance read is already served. A
	// failure here is not fatal: every leave operation ensures the ledger
	// again on first touch.
	if _, err := s.balances.EnsureBalance(ctx, emp.ID); err != nil {
		s.logger.Warn("register employee ledger creation failed",
			zap.String("employee_id", emp.ID.String()),
			zap.Error(err),
		)
	}

	pair, err := s.sessions.Issue(ctx, emp.ID, emp.Email, session.RoleEmployee)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("employee registered",
		zap.String("request_id", rid),
		zap.String("employee_id", emp.ID.String()),
	)

	return AuthResponse{
		User:         toEmployeeUser(emp),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *service) LoginEmployee(ctx context.Context, email, password string) (AuthResponse, error) {
	emp, err := s.employeeRepo.FindByEmail(ctx, employee.NormalizeEmail(email))
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	pair, err := s.sessions.Issue(ctx, emp.ID, emp.Email, session.RoleEmployee)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("employee login", zap.String("employee_id", emp.ID.String()))

	return AuthResponse{
		User:         toEmployeeUser(emp),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *service) LoginAdmin(ctx context.Context, email, password string) (AuthResponse, error) {
	admin, err := s.adminRepo.FindByEmail(ctx, employee.NormalizeEmail(email))
	if err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	now := s.now().UTC()
	if err := s.adminRepo.UpdateLastLogin(ctx, admin.ID, now); err != nil {
		s.logger.Warn("update admin last login failed", zap.Error(err))
	} else {
		admin.LastLogin = &now
	}

	pair, err := s.sessions.Issue(ctx, admin.ID, admin.Email, session.RoleAdmin)
	if err != nil {
		return AuthResponse{}, err
	}

	s.logger.Info("admin login", zap.String("admin_id", admin.ID.String()))

	return AuthResponse{
		User:         toAdminResponse(admin),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken, role string) (AuthResponse, error) {
	pair, claims, err := s.sessions.Rotate(ctx, refreshToken, role)
	if err != nil {
		return AuthResponse{}, err
	}

	resp := AuthResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}

	principalID, err := uuid.Parse(claims.PrincipalID())
	if err != nil {
		return resp, nil
	}
	switch role {
	case session.RoleAdmin:
		if admin, err := s.adminRepo.FindByID(ctx, principalID); err == nil {
			resp.User = toAdminResponse(admin)
		}
	default:
		if emp, err := s.employeeRepo.FindByID(ctx, principalID); err == nil {
			resp.User = toEmployeeUser(emp)
		}
	}
	return resp, nil
}

func (s *service) Logout(ctx context.Context, principalID, role, refreshToken string, allDevices bool) error {
	pid, err := uuid.Parse(principalID)
	if err != nil {
		return autherrors.ErrInvalidCredentials
	}

	token := refreshToken
	if allDevices {
		token = ""
	}
	if err := s.sessions.Revoke(ctx, pid, role, token); err != nil {
		return err
	}

	s.logger.Info("logout",
		zap.String("principal_id", principalID),
		zap.String("role", role),
		zap.Bool("all_devices", allDevices),
	)
	return nil
}

func (s *service) EmployeeProfile(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	empID, err := uuid.Parse(id)
	if err != nil {
		return employee.EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}
	emp, err := s.employeeRepo.FindByID(ctx, empID)
	if err != nil {
		return employee.EmployeeResponse{}, employee.MapRepositoryError(err)
	}
	return employee.ToResponse(emp), nil
}

func (s *service) UpdateEmployeeProfile(ctx context.Context, id string, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	return s.employees.Update(ctx, id, req)
}

func (s *service) AdminProfile(ctx context.Context, id string) (AdminResponse, error) {
	adminID, err := uuid.Parse(id)
	if err != nil {
		return AdminResponse{}, autherrors.ErrAdminNotFound
	}
	admin, err := s.adminRepo.FindByID(ctx, adminID)
	if err != nil {
		return AdminResponse{}, autherrors.ErrAdminNotFound
	}
	return toAdminResponse(admin), nil
}

func (s *service) EnsureAdmin(ctx context.Context) error {
	email := employee.NormalizeEmail(os.Getenv("ADMIN_EMAIL"))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return autherrors.ErrAdminBootstrapConfig
	}

	admin, err := s.adminRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), adminBcryptCost)
		if err != nil {
			return err
		}
		admin = &Admin{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: string(hashed),
			Name:         "System Administrator",
		}
		if err := s.adminRepo.Create(ctx, admin); err != nil {
			return err
		}
		s.logger.Info("admin principal provisioned", zap.String("admin_id", admin.ID.String()))
		return nil
	}

	// Keep the stored hash in sync with the configured password.
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), adminBcryptCost)
		if err != nil {
			return err
		}
		if err := s.adminRepo.UpdatePasswordHash(ctx, admin.ID, string(hashed)); err != nil {
			return err
		}
		s.logger.Info("admin password rotated from environment", zap.String("admin_id", admin.ID.String()))
	}
	return nil
}
