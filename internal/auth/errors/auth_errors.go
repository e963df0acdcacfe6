package autherrors

import (
	"net/http"

	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid email or password",
		http.StatusUnauthorized,
	)
	ErrMissingRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"Missing refresh token",
		http.StatusUnauthorized,
	)
	ErrAdminNotFound = apperror.New(
		apperror.CodeNotFound,
		"Admin not found",
		http.StatusNotFound,
	)
	ErrAdminBootstrapConfig = apperror.New(
		apperror.CodeInternalError,
		"ADMIN_EMAIL and ADMIN_PASSWORD must be set",
		http.StatusInternalServerError,
	)
)
