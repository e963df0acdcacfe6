package sessionerrors

import (
	"net/http"

	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
)

var (
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or expired token",
		http.StatusUnauthorized,
	)
	// ErrInvalidRefreshToken covers every refresh verification failure at the
	// refresh boundary: bad signature, expiry, wrong role. Refresh failures
	// are 403, not 401, so clients distinguish "log in again" from "missing
	// access token".
	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeForbidden,
		"Invalid refresh token",
		http.StatusForbidden,
	)
	ErrUnknownToken = apperror.New(
		apperror.CodeForbidden,
		"Invalid refresh token",
		http.StatusForbidden,
	)
	ErrWrongRole = apperror.New(
		apperror.CodeForbidden,
		"You do not have permission to access this resource",
		http.StatusForbidden,
	)
)
