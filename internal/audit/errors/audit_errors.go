package auditerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidSubjectID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll or run id",
		http.StatusBadRequest,
	)
	ErrSubjectRequired = apperror.New(
		apperror.CodeInvalidInput,
		"audit row must reference a payroll or a payroll run",
		http.StatusBadRequest,
	)
)
