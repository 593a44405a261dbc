package rbac

import (
	"context"
	"sync"

	"go-payroll/internal/domain"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

// Resources and actions guarded by the payroll API.
const (
	ResourcePayroll    = "payroll"
	ResourcePayrollRun = "payroll_run"

	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionProcess = "process"
	ActionReview  = "review"
	ActionApprove = "approve"
)

type Service interface {
	LoadOrganisationPolicy(ctx context.Context, organisationID string) error
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)
}

type service struct {
	repo     Repository
	enforcer *casbin.Enforcer
	mu       sync.Mutex
	logger   *zap.Logger
}

func NewService(repo Repository, enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("rbac.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("rbac.service")
	}
	return &service{
		repo:     repo,
		enforcer: enforcer,
		logger:   l,
	}
}

func (s *service) LoadOrganisationPolicy(ctx context.Context, organisationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadPolicyUnlocked(ctx, organisationID)
}

// loadPolicyUnlocked replaces the in-memory policy with the organisation's
// current grants, so role changes apply on the next check.
func (s *service) loadPolicyUnlocked(ctx context.Context, organisationID string) error {
	s.enforcer.ClearPolicy()

	userRoles, err := s.repo.GetUserRoles(ctx, organisationID)
	if err != nil {
		return err
	}

	for _, ur := range userRoles {
		if _, err := s.enforcer.AddGroupingPolicy(ur.UserID, ur.RoleID, organisationID); err != nil {
			return err
		}
	}

	rolePerms, err := s.repo.GetRolePermissions(ctx, organisationID)
	if err != nil {
		return err
	}

	for _, rp := range rolePerms {
		if _, err := s.enforcer.AddPolicy(rp.RoleID, organisationID, rp.Resource, rp.Action); err != nil {
			return err
		}
	}

	s.logger.Debug("policy loaded",
		zap.String("organisation_id", organisationID),
		zap.Int("user_roles", len(userRoles)),
		zap.Int("role_permissions", len(rolePerms)),
	)
	return nil
}

func (s *service) Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadPolicyUnlocked(ctx, req.OrganisationID); err != nil {
		return false, err
	}

	allowed, err := s.enforcer.Enforce(req.ActorID, req.OrganisationID, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("actor_id", req.ActorID),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("actor_id", req.ActorID),
		zap.String("organisation_id", req.OrganisationID),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)

	return allowed, nil
}
