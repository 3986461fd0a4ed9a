package contract

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
	"github.com/dmitrymomot/pricingkit/pkg/usage"
)

// PricingSource resolves the pricing document of a service version.
type PricingSource interface {
	Pricing(ctx context.Context, service, version string) (*pricing.Document, error)
}

// CreateRequest describes a new contract. The per-service maps share keys.
type CreateRequest struct {
	UserContact        UserContact
	AutoRenew          bool
	RenewalDays        int
	ContractedServices map[string]string
	SubscriptionPlans  map[string]string
	SubscriptionAddOns map[string]map[string]int
}

// Service manages contract creation and usage counters.
type Service struct {
	store    Store
	pricings PricingSource
	log      *slog.Logger
	now      func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service. Panics if store or pricings is nil.
func NewService(store Store, pricings PricingSource, opts ...ServiceOption) *Service {
	if store == nil {
		panic("contract: Store is required")
	}
	if pricings == nil {
		panic("contract: PricingSource is required")
	}
	s := &Service{
		store:    store,
		pricings: pricings,
		log:      slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates every requested subscription against its pricing,
// initializes usage levels and stores the contract.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Contract, error) {
	if req.UserContact.UserID == "" {
		return nil, ErrMissingUserID
	}
	if len(req.ContractedServices) == 0 {
		return nil, ErrNoServices
	}
	seen := make(map[string]string, len(req.ContractedServices))
	for _, service := range slices.Sorted(maps.Keys(req.ContractedServices)) {
		key := ServiceKey(service)
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%q and %q: %w", prev, service, ErrDuplicateService)
		}
		seen[key] = service
	}

	now := s.now()
	c := &Contract{
		UserContact:   req.UserContact,
		BillingPeriod: NewBillingPeriod(now, req.RenewalDays, req.AutoRenew),
		UsageLevels:   make(map[string]usage.Levels),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, service := range slices.Sorted(maps.Keys(req.ContractedServices)) {
		version := req.ContractedServices[service]
		doc, err := s.pricings.Pricing(ctx, service, version)
		if err != nil {
			return nil, fmt.Errorf("%s@%s: %w", service, version, err)
		}

		sel := subscription.Selection{
			Plan:   req.SubscriptionPlans[service],
			AddOns: req.SubscriptionAddOns[service],
		}
		if err := subscription.Validate(sel, doc); err != nil {
			return nil, fmt.Errorf("%s@%s: %w", service, version, err)
		}

		levels, tracked, err := usage.Generate(doc, now)
		if err != nil {
			return nil, fmt.Errorf("%s@%s: %w", service, version, err)
		}

		c.Bind(service, version, sel)
		c.SetUsageLevels(service, levels, tracked)
	}

	if err := s.store.Create(ctx, c); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "contract created",
		logger.ContractID(c.ID),
		logger.UserID(c.UserContact.UserID),
		logger.Count("services", len(c.ContractedServices)),
	)

	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Contract, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID string) (*Contract, error) {
	return s.store.GetByUser(ctx, userID)
}

// ResetUsage renews the expired renewable counters of every contracted
// service and returns how many were reset. The contract is only written when
// something changed.
func (s *Service) ResetUsage(ctx context.Context, id string) (int, error) {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if c.Disabled {
		return 0, ErrContractDisabled
	}

	now := s.now()
	total := 0
	for _, service := range c.Services() {
		levels, ok := c.UsageLevels[service]
		if !ok {
			continue
		}
		doc, err := s.pricings.Pricing(ctx, service, c.ContractedServices[service])
		if err != nil {
			return 0, fmt.Errorf("%s: %w", service, err)
		}
		n, err := usage.Renew(levels, doc, now)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", service, err)
		}
		total += n
	}

	if total == 0 {
		return 0, nil
	}

	c.UpdatedAt = now
	if err := s.store.Update(ctx, c); err != nil {
		return 0, err
	}

	s.log.DebugContext(ctx, "usage levels renewed",
		logger.ContractID(c.ID),
		logger.Count("renewed", total),
	)

	return total, nil
}

// Consume increments the counter of limit for service.
func (s *Service) Consume(ctx context.Context, id, service, limit string, amount float64) error {
	c, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Disabled {
		return ErrContractDisabled
	}

	levels, ok := c.UsageLevels[ServiceKey(service)]
	if !ok {
		return ErrServiceNotInScope
	}
	if err := usage.Consume(levels, limit, amount); err != nil {
		return err
	}

	c.UpdatedAt = s.now()
	return s.store.Update(ctx, c)
}
