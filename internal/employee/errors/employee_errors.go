package employeeerrors

import (
	"net/http"

	"github.com/blaze-nyan/brillar-lms/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmailAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee with the same email already exists",
		http.StatusConflict,
	)
	ErrPhoneAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Phone number is already registered to another employee",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeValidationError,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidSupervisor = apperror.New(
		apperror.CodeValidationError,
		"Supervisor is not in the allowed list",
		http.StatusBadRequest,
	)
)
