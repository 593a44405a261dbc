package paycomponenterrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCaps = apperror.New(
		apperror.CodeConfiguration,
		"pay component min_amount must not exceed max_amount",
		http.StatusUnprocessableEntity,
	)
	ErrNegativeAmount = apperror.New(
		apperror.CodeConfiguration,
		"pay component amount cannot be negative",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownCalculation = apperror.New(
		apperror.CodeConfiguration,
		"unknown pay component calculation type",
		http.StatusUnprocessableEntity,
	)
	ErrUnsupportedBase = apperror.New(
		apperror.CodeConfiguration,
		"unsupported percentage base for pay component",
		http.StatusUnprocessableEntity,
	)
	ErrMissingCustomBase = apperror.New(
		apperror.CodeConfiguration,
		"pay component with custom percentage base has no custom_base",
		http.StatusUnprocessableEntity,
	)
	ErrFormula = apperror.New(
		apperror.CodeConfiguration,
		"pay component formula is invalid",
		http.StatusUnprocessableEntity,
	)
	ErrUnknownType = apperror.New(
		apperror.CodeConfiguration,
		"pay component type must be earning or deduction",
		http.StatusUnprocessableEntity,
	)
)
