package rbac

import (
	"context"
	"errors"
	"fmt"
)

// Authorizer gates catalog and contract operations by caller role.
type Authorizer interface {
	// Can returns nil when role may use verb on module, ErrForbidden otherwise.
	Can(role, verb, module string) error

	// CanFromContext checks the role stored in ctx.
	CanFromContext(ctx context.Context, verb, module string) error

	// Policy returns the policy of role.
	Policy(role string) (Policy, error)
}

type authorizer struct {
	policies map[Role]Policy // read-only after construction
}

// NewAuthorizer loads policies from source. Every known role needs a policy;
// unknown roles in the source are rejected.
func NewAuthorizer(ctx context.Context, source PolicySource) (Authorizer, error) {
	policies, err := source.Load(ctx)
	if err != nil {
		return nil, err
	}

	for role := range policies {
		if _, err := ParseRole(string(role)); err != nil {
			return nil, fmt.Errorf("%w: %q", err, role)
		}
	}
	for _, role := range Roles {
		if _, ok := policies[role]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingPolicy, role)
		}
	}

	return &authorizer{policies: policies}, nil
}

// MustNewAuthorizer is NewAuthorizer that panics on error.
func MustNewAuthorizer(ctx context.Context, source PolicySource) Authorizer {
	a, err := NewAuthorizer(ctx, source)
	if err != nil {
		panic(fmt.Sprintf("rbac: %v", err))
	}
	return a
}

func (a *authorizer) Can(role, verb, module string) error {
	p, err := a.Policy(role)
	if err != nil {
		return err
	}
	if !p.Permits(verb, module) {
		return fmt.Errorf("%w: %s may not %s %s", ErrForbidden, role, verb, module)
	}
	return nil
}

func (a *authorizer) CanFromContext(ctx context.Context, verb, module string) error {
	role, ok := RoleFromContext(ctx)
	if !ok {
		return errors.Join(ErrRoleNotInContext, ErrForbidden)
	}
	return a.Can(string(role), verb, module)
}

func (a *authorizer) Policy(role string) (Policy, error) {
	r, err := ParseRole(role)
	if err != nil {
		return Policy{}, err
	}
	return a.policies[r], nil
}
