package novation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
	"github.com/dmitrymomot/pricingkit/pkg/usage"
)

// Engine rebinds contracts after catalog changes. It implements catalog.Novator.
type Engine struct {
	contracts contract.Store
	resolver  *pricing.Resolver
	log       *slog.Logger
	now       func() time.Time
}

var _ catalog.Novator = (*Engine)(nil)

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New creates an Engine. Panics if contracts or resolver is nil.
func New(contracts contract.Store, resolver *pricing.Resolver, opts ...Option) *Engine {
	if contracts == nil {
		panic("novation: contract.Store is required")
	}
	if resolver == nil {
		panic("novation: pricing.Resolver is required")
	}
	e := &Engine{
		contracts: contracts,
		resolver:  resolver,
		log:       slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NovatePricing moves every contract bound to n.Version onto the latest
// active pricing of n.Service with n.Fallback as subscription.
//
// Each contract gets a history entry for its previous subscription; the
// billing period is kept. Usage levels of the service are regenerated from the
// new pricing. If any contract would end up invalid nothing is written. All
// contracts are persisted in one bulk write.
func (e *Engine) NovatePricing(ctx context.Context, n catalog.PricingNovation) (catalog.NovationResult, error) {
	if n.Service == nil {
		return catalog.NovationResult{}, ErrMissingService
	}
	start := time.Now()
	service := n.Service.Name

	contracts, err := e.contracts.FindByServiceVersion(ctx, service, n.Version)
	if err != nil {
		return catalog.NovationResult{}, errors.Join(ErrNovationFailed, err)
	}
	if len(contracts) == 0 {
		return catalog.NovationResult{}, nil
	}

	// Remote pricings are fetched here, before anything is written.
	docs, err := e.resolver.ResolveAll(ctx, n.Service.ActivePricings)
	if err != nil {
		return catalog.NovationResult{}, err
	}
	latestVersion, latest, ok := pricing.Latest(docs)
	if !ok {
		return catalog.NovationResult{}, ErrNoActivePricing
	}

	now := e.now()
	levels, tracked, err := usage.Generate(latest, now)
	if err != nil {
		return catalog.NovationResult{}, err
	}

	var (
		invalid []string
		errs    []error
	)
	for _, c := range contracts {
		c.Archive(now)
		c.Bind(service, latestVersion, n.Fallback)
		if err := subscription.Validate(c.Selection(service), latest); err != nil {
			invalid = append(invalid, c.ID)
			errs = append(errs, fmt.Errorf("contract %s: %w", c.ID, err))
			continue
		}
		c.SetUsageLevels(service, levels.Clone(), tracked)
		c.UpdatedAt = now
	}
	if len(invalid) > 0 {
		return catalog.NovationResult{}, &ValidationError{ContractIDs: invalid, Err: errors.Join(errs...)}
	}

	if err := e.contracts.BulkUpdate(ctx, contracts, false); err != nil {
		e.log.ErrorContext(ctx, "pricing novation failed",
			logger.Service(service),
			logger.Version(n.Version),
			logger.Count("contracts", len(contracts)),
			logger.Error(err),
		)
		return catalog.NovationResult{}, errors.Join(ErrNovationFailed, err)
	}

	e.log.InfoContext(ctx, "pricing novated",
		logger.Service(service),
		logger.Version(n.Version),
		slog.String("target_version", latestVersion),
		logger.Count("novated", len(contracts)),
		logger.Duration(time.Since(start)),
	)

	return catalog.NovationResult{Novated: len(contracts)}, nil
}

// RemoveService strips service from every contract that has it.
//
// Affected contracts get a history entry and a fresh billing period of the
// same length. Contracts left without any service are disabled instead: their
// usage levels are cleared and the billing period collapses to now. Updated
// and disabled contracts are written in two bulk writes; both are always
// attempted and any failure yields ErrPartialNovation.
func (e *Engine) RemoveService(ctx context.Context, service string) (catalog.NovationResult, error) {
	start := time.Now()

	contracts, err := e.contracts.FindByService(ctx, service)
	if err != nil {
		return catalog.NovationResult{}, errors.Join(ErrNovationFailed, err)
	}
	if len(contracts) == 0 {
		return catalog.NovationResult{}, nil
	}

	now := e.now()
	var updated, disabled []*contract.Contract
	for _, c := range contracts {
		previous := c.BillingPeriod
		c.Archive(now)
		c.Unbind(service)
		c.UpdatedAt = now

		if len(c.ContractedServices) == 0 {
			c.UsageLevels = make(map[string]usage.Levels)
			c.BillingPeriod = contract.BillingPeriod{StartDate: now, EndDate: now}
			disabled = append(disabled, c)
			continue
		}

		c.BillingPeriod = contract.NewBillingPeriod(now, previous.RenewalDays, previous.AutoRenew)
		updated = append(updated, c)
	}

	var errs []error
	if len(updated) > 0 {
		if err := e.contracts.BulkUpdate(ctx, updated, false); err != nil {
			errs = append(errs, fmt.Errorf("update %d contracts: %w", len(updated), err))
		}
	}
	if len(disabled) > 0 {
		if err := e.contracts.BulkUpdate(ctx, disabled, true); err != nil {
			errs = append(errs, fmt.Errorf("disable %d contracts: %w", len(disabled), err))
		}
	}

	res := catalog.NovationResult{Novated: len(updated), Disabled: len(disabled)}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		e.log.ErrorContext(ctx, "service removal partially failed",
			logger.Service(service),
			logger.Error(err),
		)
		return res, errors.Join(ErrPartialNovation, err)
	}

	e.log.InfoContext(ctx, "service removed from contracts",
		logger.Service(service),
		logger.Count("novated", res.Novated),
		logger.Count("disabled", res.Disabled),
		logger.Duration(time.Since(start)),
	)

	return res, nil
}
