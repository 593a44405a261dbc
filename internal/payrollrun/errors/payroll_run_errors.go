package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"at least one employee is required",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrStaleStatus = apperror.New(
		apperror.CodeInvalidState,
		"payroll run status changed by another request",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"payroll run is being updated by another request",
		http.StatusConflict,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll run can only be deleted while status is draft",
		http.StatusConflict,
	)
	ErrQueueUnavailable = apperror.New(
		apperror.CodeServiceUnavailable,
		"payroll run queue is not configured",
		http.StatusServiceUnavailable,
	)
)
