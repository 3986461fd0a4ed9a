package rbac

import (
	"slices"
	"strings"
)

// Role is one of the closed set of caller roles.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleEvaluator Role = "evaluator"
)

// Roles lists every known role.
var Roles = []Role{RoleAdmin, RoleManager, RoleEvaluator}

// ParseRole validates name against the known roles.
func ParseRole(name string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(name)))
	if !slices.Contains(Roles, r) {
		return "", ErrInvalidRole
	}
	return r, nil
}

// AnyModule matches every module.
const AnyModule = "*"

// Policy decides which verbs a role may use on which modules.
// Verbs are HTTP methods; module patterns are "*" or a module prefix.
type Policy struct {
	AllowAll       bool                `json:"allowAll,omitempty" yaml:"allowAll"`
	AllowedMethods map[string][]string `json:"allowedMethods,omitempty" yaml:"allowedMethods"`
	BlockedMethods map[string][]string `json:"blockedMethods,omitempty" yaml:"blockedMethods"`
}

// Permits evaluates the policy. Precedence:
//  1. AllowAll permits everything.
//  2. A blocked verb whose pattern matches the module denies.
//  3. Without any AllowedMethods everything else is permitted.
//  4. An allowed verb whose pattern matches the module permits.
//  5. Anything else is denied.
func (p Policy) Permits(verb, module string) bool {
	if p.AllowAll {
		return true
	}

	verb = strings.ToUpper(verb)
	if matchAny(p.BlockedMethods[verb], module) {
		return false
	}
	if len(p.AllowedMethods) == 0 {
		return true
	}
	return matchAny(p.AllowedMethods[verb], module)
}

// Clone returns a deep copy.
func (p Policy) Clone() Policy {
	return Policy{
		AllowAll:       p.AllowAll,
		AllowedMethods: cloneMethods(p.AllowedMethods),
		BlockedMethods: cloneMethods(p.BlockedMethods),
	}
}

func matchAny(patterns []string, module string) bool {
	for _, pattern := range patterns {
		if pattern == AnyModule || strings.HasPrefix(module, pattern) {
			return true
		}
	}
	return false
}

func cloneMethods(m map[string][]string) map[string][]string {
	if m == nil {
		return nil
	}
	out := make(map[string][]string, len(m))
	for verb, patterns := range m {
		out[strings.ToUpper(verb)] = slices.Clone(patterns)
	}
	return out
}

// DefaultPolicies returns the built-in role table.
func DefaultPolicies() map[Role]Policy {
	return map[Role]Policy{
		RoleAdmin: {AllowAll: true},
		RoleManager: {
			BlockedMethods: map[string][]string{
				"DELETE": {AnyModule},
			},
		},
		RoleEvaluator: {
			AllowedMethods: map[string][]string{
				"GET":  {"services", "features", "contracts"},
				"POST": {"features"},
			},
		},
	}
}
