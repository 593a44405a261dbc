package payrollerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidOrganisationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid organisation id",
		http.StatusBadRequest,
	)
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriodFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid period format, expected YYYY-MM",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll status filter",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason required for rejection",
		http.StatusBadRequest,
	)
	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"unknown workflow action",
		http.StatusBadRequest,
	)

	// Configuration errors: the payroll cannot be computed until data is fixed.
	ErrMissingBaseSalary = apperror.New(
		apperror.CodeConfiguration,
		"employee has no resolvable base salary",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidFrequency = apperror.New(
		apperror.CodeConfiguration,
		"unknown pay frequency",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidSalaryType = apperror.New(
		apperror.CodeConfiguration,
		"unknown salary type",
		http.StatusUnprocessableEntity,
	)

	ErrDuplicatePeriod = apperror.New(
		apperror.CodeConflict,
		"payroll already exists for this employee in an overlapping period",
		http.StatusConflict,
	)
	ErrPayrollNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll not found",
		http.StatusNotFound,
	)

	// Workflow violations.
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid payroll status transition",
		http.StatusConflict,
	)
	ErrStaleStatus = apperror.New(
		apperror.CodeInvalidState,
		"payroll status changed since it was read",
		http.StatusConflict,
	)
	ErrManagedByRun = apperror.New(
		apperror.CodeInvalidState,
		"payroll belongs to a payroll run, transition the run instead",
		http.StatusConflict,
	)
	ErrAlreadyInRun = apperror.New(
		apperror.CodeConflict,
		"payroll was attached to another payroll run",
		http.StatusConflict,
	)
	ErrRecalculateNotAllowed = apperror.New(
		apperror.CodeInvalidState,
		"payroll can only be recalculated before approval",
		http.StatusConflict,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"another transition is in progress, retry shortly",
		http.StatusConflict,
	)
	ErrDeleteOnlyDraft = apperror.New(
		apperror.CodeInvalidState,
		"payroll can only be deleted while status is draft",
		http.StatusConflict,
	)
)
