package employee

import (
	"time"

	"github.com/blaze-nyan/brillar-lms/internal/leave"
	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

type UpdateEmployeeRequest struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Email        *string  `json:"email" binding:"omitempty,email"`
	PhoneNumbers []string `json:"phoneNumbers" binding:"omitempty,dive,min=5"`
	Supervisor   *string  `json:"supervisor"`
}

type EmployeeResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	PhoneNumbers []string `json:"phoneNumbers"`
	Supervisor   string   `json:"supervisor"`
	CreatedAt    string   `json:"createdAt"`
}

type EmployeeDetailResponse struct {
	EmployeeResponse
	LeaveBalance *leave.BalanceResponse `json:"leaveBalance,omitempty"`
}

type EmployeeListResponse struct {
	Employees  []EmployeeResponse  `json:"employees"`
	Pagination response.Pagination `json:"pagination"`
}

type SupervisorResponse struct {
	Name          string `json:"name"`
	EmployeeCount int64  `json:"employeeCount"`
}

func ToResponse(emp *Employee) EmployeeResponse {
	phones := emp.PhoneNumbers
	if phones == nil {
		phones = []string{}
	}
	return EmployeeResponse{
		ID:           emp.ID.String(),
		Name:         emp.Name,
		Email:        emp.Email,
		PhoneNumbers: phones,
		Supervisor:   emp.Supervisor,
		CreatedAt:    emp.CreatedAt.Format(time.RFC3339),
	}
}
