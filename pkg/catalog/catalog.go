package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
)

// Source is a pricing version to upload: a parsed document stored locally,
// or a URL whose document stays remote.
type Source struct {
	Document *pricing.Document
	URL      string
}

// Catalog manages services and the lifecycle of their pricing versions.
type Catalog struct {
	store     Store
	docs      pricing.DocumentStore
	resolver  *pricing.Resolver
	novator   Novator
	lifecycle *Lifecycle
	log       *slog.Logger
	now       func() time.Time
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithNovator sets the engine that repairs contracts on archive and disable.
// Without one, those operations only touch the catalog.
func WithNovator(n Novator) Option {
	return func(c *Catalog) { c.novator = n }
}

// WithLifecycle replaces DefaultLifecycle.
func WithLifecycle(l *Lifecycle) Option {
	return func(c *Catalog) {
		if l != nil {
			c.lifecycle = l
		}
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Catalog) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Catalog. Panics if any dependency is nil.
func New(store Store, docs pricing.DocumentStore, resolver *pricing.Resolver, opts ...Option) *Catalog {
	if store == nil {
		panic("catalog: Store is required")
	}
	if docs == nil {
		panic("catalog: DocumentStore is required")
	}
	if resolver == nil {
		panic("catalog: Resolver is required")
	}
	c := &Catalog{
		store:     store,
		docs:      docs,
		resolver:  resolver,
		lifecycle: DefaultLifecycle(),
		log:       slog.Default(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Create registers service name with every source as an active version.
func (c *Catalog) Create(ctx context.Context, name string, sources ...Source) (*Service, error) {
	if FoldName(name) == "" {
		return nil, ErrMissingName
	}
	if len(sources) == 0 {
		return nil, ErrNoActivePricing
	}
	if _, err := c.store.Get(ctx, name); err == nil {
		return nil, ErrServiceExists
	} else if !errors.Is(err, ErrServiceNotFound) {
		return nil, err
	}

	uploads := make([]upload, 0, len(sources))
	svc := &Service{Name: name}
	for _, src := range sources {
		u, err := c.load(ctx, name, src)
		if err != nil {
			return nil, err
		}
		if _, err := c.lifecycle.Next(svc, u.version, EventUpload); err != nil {
			return nil, fmt.Errorf("%s: %w", u.version, err)
		}
		svc.setState(u.version, StateActive, u.locator)
		uploads = append(uploads, u)
	}

	if err := c.persistDocuments(ctx, svc, uploads); err != nil {
		return nil, err
	}

	now := c.now()
	svc.CreatedAt, svc.UpdatedAt = now, now
	if err := c.store.Create(ctx, svc); err != nil {
		c.discardDocuments(ctx, uploads)
		return nil, err
	}

	c.log.InfoContext(ctx, "service created",
		logger.Service(svc.Name),
		logger.Count("versions", len(svc.ActivePricings)),
	)

	return svc, nil
}

// AddPricing uploads a new active version. The service is created on the
// first upload.
func (c *Catalog) AddPricing(ctx context.Context, name string, src Source) (*Service, error) {
	svc, err := c.store.Get(ctx, name)
	if errors.Is(err, ErrServiceNotFound) {
		return c.Create(ctx, name, src)
	}
	if err != nil {
		return nil, err
	}
	if svc.Disabled {
		return nil, ErrServiceDisabled
	}

	u, err := c.load(ctx, svc.Name, src)
	if err != nil {
		return nil, err
	}
	if _, err := c.lifecycle.Next(svc, u.version, EventUpload); err != nil {
		return nil, err
	}
	svc.setState(u.version, StateActive, u.locator)

	if err := c.persistDocuments(ctx, svc, []upload{u}); err != nil {
		return nil, err
	}

	svc.UpdatedAt = c.now()
	if err := c.store.Update(ctx, svc); err != nil {
		c.discardDocuments(ctx, []upload{u})
		return nil, err
	}

	c.log.InfoContext(ctx, "pricing added",
		logger.Service(svc.Name),
		logger.Version(u.version),
	)

	return svc, nil
}

// ArchivePricing moves an active version to the archive and novates every
// contract bound to it onto the latest remaining active version using
// fallback. Novation runs before the catalog is written, so a failed novation
// leaves the version active. Archiving an archived version is a no-op.
// Versions of a disabled service cannot change state.
func (c *Catalog) ArchivePricing(ctx context.Context, name, version string, fallback *subscription.Selection) (NovationResult, error) {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return NovationResult{}, err
	}
	if svc.Disabled {
		return NovationResult{}, ErrServiceDisabled
	}
	if svc.State(version) == StateArchived {
		return NovationResult{}, nil
	}

	to, err := c.lifecycle.Next(svc, version, EventArchive)
	if err != nil {
		return NovationResult{}, err
	}
	if fallback == nil || fallback.IsEmpty() {
		return NovationResult{}, ErrMissingFallback
	}

	loc, _ := svc.Locator(version)
	next := svc.Clone()
	next.setState(version, to, loc)

	var res NovationResult
	if c.novator != nil {
		res, err = c.novator.NovatePricing(ctx, PricingNovation{
			Service:  next,
			Version:  version,
			Fallback: fallback.Clone(),
		})
		if err != nil {
			return res, err
		}
	}

	next.UpdatedAt = c.now()
	if err := c.store.Update(ctx, next); err != nil {
		return res, err
	}

	c.log.InfoContext(ctx, "pricing archived",
		logger.Service(next.Name),
		logger.Version(version),
		logger.Count("novated", res.Novated),
	)

	return res, nil
}

// ActivatePricing moves an archived version back to the active set.
// Activating an active version is a no-op.
func (c *Catalog) ActivatePricing(ctx context.Context, name, version string) error {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return err
	}
	if svc.Disabled {
		return ErrServiceDisabled
	}

	from := svc.State(version)
	to, err := c.lifecycle.Next(svc, version, EventActivate)
	if err != nil {
		return err
	}
	if from == to {
		return nil
	}

	loc, _ := svc.Locator(version)
	svc.setState(version, to, loc)
	svc.UpdatedAt = c.now()
	if err := c.store.Update(ctx, svc); err != nil {
		return err
	}

	c.log.InfoContext(ctx, "pricing activated",
		logger.Service(svc.Name),
		logger.Version(version),
	)

	return nil
}

// DeletePricing removes an archived version and its locally stored document.
func (c *Catalog) DeletePricing(ctx context.Context, name, version string) error {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return err
	}
	if svc.Disabled {
		return ErrServiceDisabled
	}

	to, err := c.lifecycle.Next(svc, version, EventDelete)
	if err != nil {
		return err
	}

	loc, _ := svc.Locator(version)
	svc.setState(version, to, loc)
	svc.UpdatedAt = c.now()
	if err := c.store.Update(ctx, svc); err != nil {
		return err
	}

	if !loc.IsRemote() && loc.ID != "" {
		if err := c.docs.Delete(ctx, loc.ID); err != nil && !errors.Is(err, pricing.ErrPricingNotFound) {
			c.log.WarnContext(ctx, "failed to delete pricing document",
				logger.Service(svc.Name),
				logger.Version(version),
				logger.Error(err),
			)
		}
	}

	c.log.InfoContext(ctx, "pricing deleted",
		logger.Service(svc.Name),
		logger.Version(version),
	)

	return nil
}

// Disable removes the service from every contract and marks it disabled.
// Contracts left without services are disabled too. Disabling a disabled
// service is a no-op.
func (c *Catalog) Disable(ctx context.Context, name string) (NovationResult, error) {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return NovationResult{}, err
	}
	if svc.Disabled {
		return NovationResult{}, nil
	}

	var res NovationResult
	if c.novator != nil {
		res, err = c.novator.RemoveService(ctx, svc.Name)
		if err != nil {
			return res, err
		}
	}

	svc.Disabled = true
	svc.UpdatedAt = c.now()
	if err := c.store.Update(ctx, svc); err != nil {
		return res, err
	}

	c.log.InfoContext(ctx, "service disabled",
		logger.Service(svc.Name),
		logger.Count("novated", res.Novated),
		logger.Count("disabled", res.Disabled),
	)

	return res, nil
}

func (c *Catalog) Get(ctx context.Context, name string) (*Service, error) {
	return c.store.Get(ctx, name)
}

func (c *Catalog) Search(ctx context.Context, query string, includeDisabled bool) ([]*Service, error) {
	return c.store.Search(ctx, query, includeDisabled)
}

// Pricing resolves any known version of an enabled service.
func (c *Catalog) Pricing(ctx context.Context, name, version string) (*pricing.Document, error) {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	if svc.Disabled {
		return nil, ErrServiceDisabled
	}
	loc, ok := svc.Locator(version)
	if !ok {
		return nil, ErrPricingNotFound
	}
	return c.resolver.Resolve(ctx, loc)
}

// LatestPricing resolves every active version and returns the most recent.
func (c *Catalog) LatestPricing(ctx context.Context, name string) (*pricing.Document, error) {
	svc, err := c.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	docs, err := c.resolver.ResolveAll(ctx, svc.ActivePricings)
	if err != nil {
		return nil, err
	}
	_, doc, ok := pricing.Latest(docs)
	if !ok {
		return nil, ErrNoActivePricing
	}
	return doc, nil
}

type upload struct {
	version string
	locator pricing.Locator
	doc     *pricing.Document // nil for remote sources
}

// load materializes src and checks it belongs to service name.
func (c *Catalog) load(ctx context.Context, name string, src Source) (upload, error) {
	var (
		u   upload
		doc *pricing.Document
	)
	switch {
	case src.Document != nil:
		doc = src.Document.Clone()
		doc.ID = ""
		u.doc = doc
	case src.URL != "":
		loc := pricing.RemoteLocator(src.URL)
		resolved, err := c.resolver.Resolve(ctx, loc)
		if err != nil {
			return u, err
		}
		doc = resolved
		u.locator = loc
	default:
		return u, ErrEmptySource
	}

	if FoldName(doc.SaaSName) != FoldName(name) {
		return u, fmt.Errorf("%w: pricing is for %q, not %q", ErrNameMismatch, doc.SaaSName, name)
	}
	if doc.Version == "" {
		return u, errors.Join(pricing.ErrParseFailed, errors.New("pricing has no version"))
	}
	u.version = doc.Version
	return u, nil
}

// persistDocuments stores local documents and points their versions at them.
func (c *Catalog) persistDocuments(ctx context.Context, svc *Service, uploads []upload) error {
	for i, u := range uploads {
		if u.doc == nil {
			continue
		}
		if err := c.docs.Save(ctx, u.doc); err != nil {
			c.discardDocuments(ctx, uploads[:i])
			return err
		}
		uploads[i].locator = pricing.LocalLocator(u.doc.ID)
		svc.setState(u.version, StateActive, uploads[i].locator)
	}
	return nil
}

func (c *Catalog) discardDocuments(ctx context.Context, uploads []upload) {
	for _, u := range uploads {
		if u.doc == nil || u.doc.ID == "" {
			continue
		}
		if err := c.docs.Delete(ctx, u.doc.ID); err != nil {
			c.log.WarnContext(ctx, "failed to discard pricing document",
				logger.Version(u.version),
				logger.Error(err),
			)
		}
	}
}
