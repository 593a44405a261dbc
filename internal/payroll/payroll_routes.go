package payroll

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
	rdb redis.Cmdable,
) {
	payrolls := r.Group("/payrolls")
	payrolls.Use(authMiddleware)
	{
		payrolls.GET("", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.GetAll)
		payrolls.GET("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.GetByID)
		payrolls.GET("/:id/breakdown", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead), handler.GetBreakdown)

		compose := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionCreate)}
		if rdb != nil {
			compose = append([]gin.HandlerFunc{middleware.Idempotency(rdb)}, compose...)
		}
		payrolls.POST("/compose", append(compose, handler.Compose)...)

		payrolls.POST("/:id/recalculate", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionUpdate), handler.Recalculate)
		payrolls.DELETE("/:id", middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionDelete), handler.Delete)

		// capability checks for workflow actions happen in the service
		for _, action := range []string{ActionSubmit, ActionReview, ActionApprove, ActionReject, ActionPay, ActionCancel} {
			payrolls.POST("/:id/"+action, handler.Transition(action))
		}
	}
}
