package evalctx

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
	"github.com/dmitrymomot/pricingkit/pkg/usage"
)

// Builder flattens contracts into evaluation contexts.
type Builder struct {
	pricings contract.PricingSource
	log      *slog.Logger
	validate bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}

// WithValidation makes Build re-validate every subscription against its
// pricing and fail with ErrStaleSelection when it no longer holds.
func WithValidation() Option {
	return func(b *Builder) {
		b.validate = true
	}
}

// NewBuilder creates a Builder. Panics if pricings is nil.
func NewBuilder(pricings contract.PricingSource, opts ...Option) *Builder {
	if pricings == nil {
		panic("evalctx: PricingSource is required")
	}
	b := &Builder{
		pricings: pricings,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build resolves the pricing of every contracted service and flattens the
// contract's subscriptions into one Context.
func (b *Builder) Build(ctx context.Context, c *contract.Contract) (*Context, error) {
	if c == nil {
		return nil, ErrNilContract
	}
	if c.Disabled {
		return nil, ErrContractDisabled
	}

	services := c.Services()
	docs := make([]*pricing.Document, len(services))

	g, gctx := errgroup.WithContext(ctx)
	for i, service := range services {
		g.Go(func() error {
			doc, err := b.pricings.Pricing(gctx, service, c.ContractedServices[service])
			if err != nil {
				return fmt.Errorf("%s: %w", service, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.log.ErrorContext(ctx, "failed to resolve contract pricings",
			logger.ContractID(c.ID),
			logger.Error(err),
		)
		return nil, err
	}

	out := newContext()
	for i, service := range services {
		sel := c.Selection(service)
		if b.validate {
			if err := subscription.Validate(sel, docs[i]); err != nil {
				return nil, fmt.Errorf("%s: %w", service, errors.Join(ErrStaleSelection, err))
			}
		}
		Flatten(out, service, docs[i], sel, c.UsageLevels[service])
	}

	b.log.DebugContext(ctx, "evaluation context built",
		logger.ContractID(c.ID),
		logger.Count("services", len(services)),
		logger.Count("features", len(out.Pricing.Features)),
	)
	return out, nil
}

// Flatten merges the effective values of one service subscription into out.
func Flatten(out *Context, service string, doc *pricing.Document, sel subscription.Selection, levels usage.Levels) {
	features, limits := Effective(doc, sel)

	for name, v := range features {
		out.Pricing.Features[Key(service, name)] = v
	}
	for name, v := range limits {
		out.Pricing.UsageLimits[Key(service, name)] = v
	}
	for name, lvl := range levels {
		out.Subscription[Key(service, name)] = lvl.Consumed
	}
	for name, f := range doc.Features {
		if f.Expression == "" {
			continue
		}
		out.Evaluation[Key(service, name)] = RewriteExpression(service, f.Expression)
	}
}

// Effective computes the feature and usage limit values a subscription grants:
// the plan value or the default, overlaid by add-on overrides in name order,
// then add-on extensions multiplied by the subscribed quantity.
func Effective(doc *pricing.Document, sel subscription.Selection) (features, limits map[string]any) {
	plan, _ := doc.Plan(sel.Plan)

	features = make(map[string]any, len(doc.Features))
	for name, f := range doc.Features {
		features[name] = f.DefaultValue
		if v, ok := plan.Features[name]; ok && v != nil {
			features[name] = v
		}
	}
	limits = make(map[string]any, len(doc.UsageLimits))
	for name, l := range doc.UsageLimits {
		limits[name] = l.DefaultValue
		if v, ok := plan.UsageLimits[name]; ok && v != nil {
			limits[name] = v
		}
	}

	addOns := slices.Sorted(maps.Keys(sel.AddOns))
	for _, name := range addOns {
		addOn, ok := doc.AddOn(name)
		if !ok {
			continue
		}
		for k, v := range addOn.Features {
			if _, known := features[k]; known {
				features[k] = v
			}
		}
		for k, v := range addOn.UsageLimits {
			if _, known := limits[k]; known {
				limits[k] = v
			}
		}
	}
	for _, name := range addOns {
		addOn, ok := doc.AddOn(name)
		if !ok {
			continue
		}
		qty := float64(sel.AddOns[name])
		for k, ext := range addOn.UsageLimitsExtensions {
			current, known := limits[k]
			if !known {
				continue
			}
			base, _ := pricing.ToFloat(current)
			limits[k] = base + ext*qty
		}
	}
	return features, limits
}
