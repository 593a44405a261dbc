package audit

import (
	"go-payroll/internal/middleware"
	"go-payroll/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	authMiddleware gin.HandlerFunc,
) {
	r.GET("/payrolls/:id/audits",
		authMiddleware,
		middleware.RBACAuthorize(rbacService, rbac.ResourcePayroll, rbac.ActionRead),
		handler.ListForPayroll,
	)
	r.GET("/payroll-runs/:id/audits",
		authMiddleware,
		middleware.RBACAuthorize(rbacService, rbac.ResourcePayrollRun, rbac.ActionRead),
		handler.ListForRun,
	)
}
