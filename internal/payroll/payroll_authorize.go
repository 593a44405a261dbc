package payroll

import (
	"context"

	"go-payroll/internal/domain"
	payrollerrors "go-payroll/internal/payroll/errors"
	"go-payroll/internal/rbac"
	"go-payroll/internal/shared/apperror"

	"github.com/google/uuid"
)

type Enforcer interface {
	Enforce(ctx context.Context, req domain.EnforceRequest) (bool, error)
}

// Actor is the user applying a workflow action.
type Actor struct {
	ID   string
	Name string
}

// capabilities lists the permissions that each allow an action; holding
// any one of them is enough.
var capabilities = map[string][]string{
	ActionSubmit:  {rbac.ActionProcess},
	ActionReview:  {rbac.ActionReview},
	ActionApprove: {rbac.ActionApprove},
	ActionReject:  {rbac.ActionApprove, rbac.ActionReview},
	ActionPay:     {rbac.ActionProcess},
	ActionCancel:  {rbac.ActionProcess, rbac.ActionApprove},
}

// Authorize checks that actor may apply action to resource. The creator of
// a record may always submit it.
func Authorize(
	ctx context.Context,
	enforcer Enforcer,
	organisationID string,
	actor Actor,
	resource, action string,
	createdBy *uuid.UUID,
) error {
	if action == ActionSubmit && createdBy != nil && createdBy.String() == actor.ID {
		return nil
	}

	allowed, ok := capabilities[action]
	if !ok {
		return payrollerrors.ErrUnknownAction
	}

	for _, permission := range allowed {
		ok, err := enforcer.Enforce(ctx, domain.EnforceRequest{
			ActorID:        actor.ID,
			OrganisationID: organisationID,
			Resource:       resource,
			Action:         permission,
		})
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return apperror.ErrForbidden
}
