package contract

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

type inMemStore struct {
	mu        sync.RWMutex
	contracts map[string]*Contract
}

// NewInMemStore returns an in-memory Store seeded with contracts.
func NewInMemStore(contracts ...*Contract) Store {
	s := &inMemStore{contracts: make(map[string]*Contract, len(contracts))}
	for _, c := range contracts {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		s.contracts[c.ID] = c.Clone()
	}
	return s
}

func (s *inMemStore) Get(ctx context.Context, id string) (*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.contracts[id]
	if !ok {
		return nil, ErrContractNotFound
	}
	return c.Clone(), nil
}

func (s *inMemStore) GetByUser(ctx context.Context, userID string) (*Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.contracts {
		if c.UserContact.UserID == userID {
			return c.Clone(), nil
		}
	}
	return nil, ErrContractNotFound
}

func (s *inMemStore) FindByService(ctx context.Context, service string) ([]*Contract, error) {
	key := ServiceKey(service)
	return s.find(func(c *Contract) bool {
		_, ok := c.ContractedServices[key]
		return ok
	}), nil
}

func (s *inMemStore) FindByServiceVersion(ctx context.Context, service, version string) ([]*Contract, error) {
	key := ServiceKey(service)
	return s.find(func(c *Contract) bool {
		v, ok := c.ContractedServices[key]
		return ok && v == version
	}), nil
}

func (s *inMemStore) find(match func(*Contract) bool) []*Contract {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Contract
	for _, c := range s.contracts {
		if !c.Disabled && match(c) {
			out = append(out, c.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *Contract) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (s *inMemStore) Create(ctx context.Context, c *Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := s.contracts[c.ID]; ok {
		return ErrContractExists
	}
	for _, existing := range s.contracts {
		if existing.UserContact.UserID == c.UserContact.UserID {
			return ErrContractExists
		}
	}
	s.contracts[c.ID] = c.Clone()
	return nil
}

func (s *inMemStore) Update(ctx context.Context, c *Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.contracts[c.ID]; !ok {
		return ErrContractNotFound
	}
	s.contracts[c.ID] = c.Clone()
	return nil
}

func (s *inMemStore) BulkUpdate(ctx context.Context, contracts []*Contract, disable bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, c := range contracts {
		if _, ok := s.contracts[c.ID]; !ok {
			errs = append(errs, fmt.Errorf("contract %s: %w", c.ID, ErrContractNotFound))
			continue
		}
		stored := c.Clone()
		if disable {
			stored.Disabled = true
		}
		s.contracts[c.ID] = stored
	}
	return errors.Join(errs...)
}
