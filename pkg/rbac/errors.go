package rbac

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	// ErrForbidden is returned when a policy denies the operation.
	ErrForbidden = errkind.New(errkind.ErrForbidden, "rbac.errors.forbidden", "operation not permitted for role")

	// ErrInvalidRole is returned for role names outside the closed set.
	ErrInvalidRole = errkind.New(errkind.ErrForbidden, "rbac.errors.invalid_role", "invalid role")

	// ErrRoleNotInContext is returned when no role is attached to the context.
	ErrRoleNotInContext = errkind.New(errkind.ErrForbidden, "rbac.errors.role_not_in_context", "role not found in context")

	// ErrMissingPolicy is returned when a policy source omits a known role.
	ErrMissingPolicy = errkind.New(errkind.ErrValidation, "rbac.errors.missing_policy", "policy missing for role")
)
