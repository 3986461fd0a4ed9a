package rbac

import (
	"context"
	"sync"
)

// PolicySource provides the policy of every role.
type PolicySource interface {
	Load(ctx context.Context) (map[Role]Policy, error)
}

type inMemPolicySource struct {
	mu       sync.RWMutex
	policies map[Role]Policy
}

// NewInMemPolicySource returns a PolicySource holding a deep copy of policies.
func NewInMemPolicySource(policies map[Role]Policy) PolicySource {
	cp := make(map[Role]Policy, len(policies))
	for role, p := range policies {
		cp[role] = p.Clone()
	}
	return &inMemPolicySource{policies: cp}
}

func (s *inMemPolicySource) Load(ctx context.Context) (map[Role]Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Role]Policy, len(s.policies))
	for role, p := range s.policies {
		out[role] = p.Clone()
	}
	return out, nil
}
