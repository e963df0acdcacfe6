package auth

import (
	"time"

	"github.com/blaze-nyan/brillar-lms/internal/employee"
)

type RegisterRequest struct {
	Name         string   `json:"name" binding:"required,min=1,max=100"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=6"`
	PhoneNumbers []string `json:"phoneNumbers" binding:"required,min=1,dive,min=5"`
	Supervisor   string   `json:"supervisor" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
	AllDevices   bool   `json:"allDevices"`
}

type AdminResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	LastLogin *string `json:"lastLogin,omitempty"`
}

// AuthResponse is the login/register/refresh payload: the principal plus a
// fresh token pair.
type AuthResponse struct {
	User         any    `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func toAdminResponse(admin *Admin) AdminResponse {
	resp := AdminResponse{
		ID:    admin.ID.String(),
		Email: admin.Email,
		Name:  admin.Name,
	}
	if admin.LastLogin != nil {
		s := admin.LastLogin.Format(time.RFC3339)
		resp.LastLogin = &s
	}
	return resp
}

func toEmployeeUser(emp *employee.Employee) employee.EmployeeResponse {
	return employee.ToResponse(emp)
}
