package payrollrun

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/payroll"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Bulk runs are expensive; each user may start one every 10s with a burst of 2.
const (
	createRunRate  = rate.Limit(0.1)
	createRunBurst = 2
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
	rdb redis.Cmdable,
) {
	runs := r.Group("/payroll-runs")
	runs.Use(authMiddleware)
	{
		runs.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.GetAll)
		runs.GET("/orphans", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.ListOrphans)
		runs.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead), handler.GetByID)

		create := []gin.HandlerFunc{
			middleware.RateLimitByUser(createRunRate, createRunBurst),
			middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionCreate),
		}
		if rdb != nil {
			create = append(create, middleware.Idempotency(rdb))
		}
		runs.POST("", append(create, handler.Create)...)

		runs.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionDelete), handler.Delete)

		for _, action := range []string{
			payroll.ActionSubmit,
			payroll.ActionReview,
			payroll.ActionApprove,
			payroll.ActionReject,
			payroll.ActionPay,
			payroll.ActionCancel,
		} {
			runs.POST("/:id/"+action, handler.Transition(action))
		}
	}
}
