package auth

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/blaze-nyan/brillar-lms/internal/employee"
	"github.com/blaze-nyan/brillar-lms/internal/middleware"
	"github.com/blaze-nyan/brillar-lms/internal/session"
	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
	platform "github.com/blaze-nyan/brillar-lms/internal/shared/request"
	"github.com/blaze-nyan/brillar-lms/internal/shared/response"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Message, nil)
}

func isWebClient(c *gin.Context) bool {
	clientType := platform.ResolveClientType(c.GetHeader("X-Client-Type"), c.GetHeader("User-Agent"))
	return platform.IsWebClient(clientType)
}

func setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(session.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(session.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearTokenCookies(c *gin.Context) {
	isProd := os.Getenv("APP_ENV") == "production"

	for _, name := range []string{"access_token", "refresh_token"} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   isProd,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

func (h *Handler) finishAuth(c *gin.Context, status int, message string, resp AuthResponse) {
	if isWebClient(c) {
		setTokenCookies(c, resp.AccessToken, resp.RefreshToken)
	}
	response.Success(c, status, message, resp)
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.RegisterEmployee(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.finishAuth(c, http.StatusCreated, "Registered successfully", resp)
}

func (h *Handler) LoginEmployee(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.LoginEmployee(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.finishAuth(c, http.StatusOK, "Login successful", resp)
}

func (h *Handler) LoginAdmin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.LoginAdmin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	h.finishAuth(c, http.StatusOK, "Login successful", resp)
}

// refreshTokenFromRequest reads the rotating token from the cookie for web
// clients, from the JSON body otherwise.
func refreshTokenFromRequest(c *gin.Context) (string, bool) {
	if isWebClient(c) {
		token, err := c.Cookie("refresh_token")
		if err != nil || token == "" {
			return "", false
		}
		return token, true
	}

	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return "", false
	}
	return req.RefreshToken, true
}

func (h *Handler) refresh(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := refreshTokenFromRequest(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Missing refresh token", nil)
			return
		}

		resp, err := h.service.Refresh(c.Request.Context(), token, role)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		h.finishAuth(c, http.StatusOK, "Token refreshed successfully", resp)
	}
}

func (h *Handler) RefreshEmployee(c *gin.Context) { h.refresh(session.RoleEmployee)(c) }
func (h *Handler) RefreshAdmin(c *gin.Context)    { h.refresh(session.RoleAdmin)(c) }

func (h *Handler) logout(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principalID := c.GetString(middleware.CtxPrincipalID)

		var req LogoutRequest
		_ = c.ShouldBindJSON(&req)
		if req.RefreshToken == "" {
			if token, err := c.Cookie("refresh_token"); err == nil {
				req.RefreshToken = token
			}
		}

		if err := h.service.Logout(c.Request.Context(), principalID, role, req.RefreshToken, req.AllDevices); err != nil {
			writeServiceError(c, err)
			return
		}

		clearTokenCookies(c)
		response.Success(c, http.StatusOK, "Logged out successfully", nil)
	}
}

func (h *Handler) LogoutEmployee(c *gin.Context) { h.logout(session.RoleEmployee)(c) }
func (h *Handler) LogoutAdmin(c *gin.Context)    { h.logout(session.RoleAdmin)(c) }

func (h *Handler) EmployeeProfile(c *gin.Context) {
	resp, err := h.service.EmployeeProfile(c.Request.Context(), c.GetString(middleware.CtxPrincipalID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", resp)
}

func (h *Handler) UpdateEmployeeProfile(c *gin.Context) {
	var req employee.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", apperror.FieldMessages(err))
		return
	}

	resp, err := h.service.UpdateEmployeeProfile(c.Request.Context(), c.GetString(middleware.CtxPrincipalID), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile updated successfully", resp)
}

func (h *Handler) AdminProfile(c *gin.Context) {
	resp, err := h.service.AdminProfile(c.Request.Context(), c.GetString(middleware.CtxPrincipalID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Profile retrieved successfully", resp)
}
