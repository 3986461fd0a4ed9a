// Package rbac is the permission gate in front of catalog, contract and
// feature-evaluation operations.
//
// Roles form a closed set (admin, manager, evaluator). Each role has a Policy
// mapping HTTP verbs to module patterns, evaluated with a fixed precedence:
// AllowAll, then BlockedMethods, then "no AllowedMethods means allow", then
// AllowedMethods, then deny. A pattern of "*" matches every module; any other
// pattern matches modules it prefixes.
//
// DefaultPolicies gives admins full access, blocks DELETE for managers and
// restricts evaluators to reading services, features and contracts and to
// posting feature evaluations.
//
//	auth := rbac.MustNewAuthorizer(ctx, rbac.NewInMemPolicySource(rbac.DefaultPolicies()))
//	if err := auth.Can("manager", http.MethodDelete, "services"); err != nil {
//		// errors.Is(err, rbac.ErrForbidden)
//	}
//
// Middleware applies the same check to chi routers, deriving the module from
// the route pattern. Denials are distinct from not-found and validation errors:
// every rbac error matches errkind.ErrForbidden.
package rbac
