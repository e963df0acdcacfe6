package leaveerrors

import (
	"net/http"

	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeValidationError,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeValidationError,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveType = apperror.New(
		apperror.CodeValidationError,
		"leave type must be one of: annual, sick, casual",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeValidationError,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeValidationError,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeValidationError,
		"days must be greater than zero",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrOnlyPendingCancellable = apperror.New(
		apperror.CodeInvalidState,
		"Only pending requests can be cancelled",
		http.StatusBadRequest,
	)
	ErrOverlappingPeriod = apperror.New(
		apperror.CodeOverlappingPeriod,
		"Requested period overlaps an existing leave period",
		http.StatusBadRequest,
	)
)

// InsufficientBalance carries the requested vs available numbers so the
// client can show a usable message.
func InsufficientBalance(leaveType string, available, requested int) *apperror.AppError {
	return apperror.Newf(
		apperror.CodeInsufficientBalance,
		http.StatusBadRequest,
		"Insufficient %s leave balance. Available: %d days, Requested: %d days",
		leaveType, available, requested,
	)
}
