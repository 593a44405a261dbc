package app

import (
	"go-payroll/internal/attendance"
	"go-payroll/internal/audit"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/notification"
	"go-payroll/internal/paycomponent"
	"go-payroll/internal/payroll"
	"go-payroll/internal/payrollrun"
	"go-payroll/internal/payrollsetting"
	"go-payroll/internal/rbac"
	"go-payroll/internal/rbac/infra"
	"go-payroll/internal/remuneration"
	"go-payroll/internal/sales"
	"go-payroll/internal/shared/counter"
	"go-payroll/internal/shared/lock"
	"go-payroll/internal/statutory"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type modules struct {
	rbacService    rbac.Service
	auditService   audit.Service
	payrollService payroll.Service
	runService     payrollrun.Service
}

func buildModules(cfg *Config, in *Infra, logger *zap.Logger) (*modules, error) {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(in.GormDB)
	auditRepo := audit.NewRepository(in.GormDB)
	attendanceRepo := attendance.NewRepository(in.GormDB)
	componentRepo := paycomponent.NewRepository(in.GormDB)
	counterRepo := counter.NewRepository(in.GormDB)
	employeeRepo := employee.NewRepository(in.GormDB)
	outboxRepo := kafka.NewOutboxRepository(in.DB)
	packageRepo := remuneration.NewRepository(in.GormDB)
	payrollRepo := payroll.NewRepository(in.GormDB)
	runRepo := payrollrun.NewRepository(in.GormDB)
	salesRepo := sales.NewRepository(in.GormDB)
	settingRepo := payrollsetting.NewRepository(in.GormDB)
	statutoryRepo := statutory.NewRepository(in.GormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(cfg.RBACModelPath)
	if err != nil {
		return nil, err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Calculation ---
	formulas, err := paycomponent.NewFormulaEvaluator()
	if err != nil {
		return nil, err
	}
	composer := payroll.NewComposer(paycomponent.NewResolver(formulas, logger))
	loader := payroll.NewInputLoader(
		employeeRepo,
		packageRepo,
		attendanceRepo,
		salesRepo,
		componentRepo,
		statutory.NewService(statutoryRepo, logger),
		payrollsetting.NewService(settingRepo, logger),
	)

	var locker lock.Locker = lock.NopLocker{}
	if in.Redis != nil {
		locker = lock.NewRedisLocker(in.Redis, cfg.RunLockTTL)
	}

	// --- Services ---
	payrollService := payroll.NewService(in.DB, payrollRepo, auditRepo, loader, composer, rbacService, locker, logger)

	deps := payrollrun.Dependencies{
		DB:        in.DB,
		Runs:      runRepo,
		Payrolls:  payrollRepo,
		Audits:    auditRepo,
		Counter:   counterRepo,
		Employees: employeeRepo,
		Loader:    loader,
		Composer:  composer,
		Enforcer:  rbacService,
		Notifier:  notification.NewOutboxNotifier(outboxRepo, logger),
	}
	orchestrator := payrollrun.NewOrchestrator(deps, cfg.BulkRunConcurrency, logger)
	runService := payrollrun.NewService(deps, orchestrator, outboxRepo, locker, logger)

	return &modules{
		rbacService:    rbacService,
		auditService:   audit.NewService(auditRepo),
		payrollService: payrollService,
		runService:     runService,
	}, nil
}

func registerRoutes(router *gin.Engine, cfg *Config, m *modules, rdb *redis.Client, logger *zap.Logger) {
	router.Use(
		middleware.RequestID(),
		middleware.ContextLogger(logger),
	)

	// a nil *redis.Client must reach the handlers as a nil interface
	var cache redis.Cmdable
	if rdb != nil {
		cache = rdb
	}

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret)

	// --- Handlers ---
	auditHandler := audit.NewHandler(m.auditService)
	payrollHandler := payroll.NewHandlerWithRedis(m.payrollService, cache)
	runHandler := payrollrun.NewHandler(m.runService, cache)
	rbacHandler := rbac.NewHandler(m.rbacService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		payroll.RegisterRoutes(api, payrollHandler, m.rbacService, authMiddleware, cache)
		payrollrun.RegisterRoutes(api, runHandler, m.rbacService, authMiddleware, cache)
		audit.RegisterRoutes(api, auditHandler, m.rbacService, authMiddleware)
		rbac.RegisterRoutes(api, rbacHandler, authMiddleware)
	}
}
