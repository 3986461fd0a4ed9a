package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type inMemStore struct {
	mu       sync.RWMutex
	services map[string]*Service // by folded name
}

// NewInMemStore returns an in-memory Store seeded with services.
func NewInMemStore(services ...*Service) Store {
	s := &inMemStore{services: make(map[string]*Service, len(services))}
	for _, svc := range services {
		prepare(svc)
		s.services[svc.FoldedName] = svc.Clone()
	}
	return s
}

func prepare(svc *Service) {
	if svc.ID == "" {
		svc.ID = uuid.NewString()
	}
	svc.FoldedName = FoldName(svc.Name)
}

func (s *inMemStore) Get(ctx context.Context, name string) (*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	svc, ok := s.services[FoldName(name)]
	if !ok {
		return nil, ErrServiceNotFound
	}
	return svc.Clone(), nil
}

func (s *inMemStore) Search(ctx context.Context, query string, includeDisabled bool) ([]*Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := FoldName(query)
	var out []*Service
	for folded, svc := range s.services {
		if svc.Disabled && !includeDisabled {
			continue
		}
		if strings.Contains(folded, q) {
			out = append(out, svc.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *Service) int { return strings.Compare(a.FoldedName, b.FoldedName) })
	return out, nil
}

func (s *inMemStore) Create(ctx context.Context, svc *Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(svc)
	if _, ok := s.services[svc.FoldedName]; ok {
		return ErrServiceExists
	}
	s.services[svc.FoldedName] = svc.Clone()
	return nil
}

func (s *inMemStore) Update(ctx context.Context, svc *Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(svc)
	if _, ok := s.services[svc.FoldedName]; !ok {
		return ErrServiceNotFound
	}
	s.services[svc.FoldedName] = svc.Clone()
	return nil
}

func (s *inMemStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folded := FoldName(name)
	if _, ok := s.services[folded]; !ok {
		return ErrServiceNotFound
	}
	delete(s.services, folded)
	return nil
}
