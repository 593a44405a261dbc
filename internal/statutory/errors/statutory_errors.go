package statutoryerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidTiers = apperror.New(
		apperror.CodeConfiguration,
		"statutory tiers must be contiguous, ascending and end with one unbounded tier",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeConfiguration,
		"statutory rate must be between 0 and 1",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownMethod = apperror.New(
		apperror.CodeConfiguration,
		"unknown statutory calculation method",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownBase = apperror.New(
		apperror.CodeConfiguration,
		"unknown statutory base",
		http.StatusUnprocessableEntity,
	)
	ErrInvalidPeriodsPerYear = apperror.New(
		apperror.CodeConfiguration,
		"periods per year must be positive",
		http.StatusUnprocessableEntity,
	)
)
