package audit

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListForPayroll(c *gin.Context) {
	rows, err := h.service.ListForPayroll(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, rows, nil)
}

func (h *Handler) ListForRun(c *gin.Context) {
	rows, err := h.service.ListForRun(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, rows, nil)
}
