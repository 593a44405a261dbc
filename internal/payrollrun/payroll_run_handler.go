package payrollrun

import (
	"net/http"

	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     redis.Cmdable
}

func NewHandler(service Service, rdb redis.Cmdable) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func actorFrom(c *gin.Context) payroll.Actor {
	return payroll.Actor{
		ID:   c.GetString(middleware.ContextUserID),
		Name: c.GetString(middleware.ContextActorName),
	}
}

func writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Create runs payroll for a batch of employees. Per-employee failures are
// part of a successful response; only request-level problems are errors.
func (h *Handler) Create(c *gin.Context) {
	defer middleware.IdempotencyRelease(c, h.rdb)

	var req CreateRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), actorFrom(c), req)
	if err != nil {
		writeError(c, err)
		return
	}

	middleware.IdempotencyStore(c, h.rdb, resp)

	status := http.StatusCreated
	switch {
	case resp.Queued:
		status = http.StatusAccepted
	case resp.Summary != nil && resp.Summary.RunID == "":
		status = http.StatusOK
	}
	response.Success(c, status, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	var filter GetRunsFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.GetAll(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListOrphans(c *gin.Context) {
	var filter OrphansFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		writeError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.ListOrphans(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Transition(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				writeError(c, apperror.MapValidationError(err))
				return
			}
		}

		resp, err := h.service.Transition(
			c.Request.Context(),
			c.GetString(middleware.ContextOrganisationID),
			actorFrom(c),
			c.Param("id"),
			action,
			req,
		)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, http.StatusOK, resp, nil)
	}
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString(middleware.ContextOrganisationID), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
