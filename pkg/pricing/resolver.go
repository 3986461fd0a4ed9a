package pricing

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Resolver materializes pricing documents from locators.
// Local locators are read from the DocumentStore; remote locators are fetched
// and parsed on every call.
type Resolver struct {
	store   DocumentStore
	fetcher Fetcher
	parser  Parser
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFetcher enables remote locators.
func WithFetcher(f Fetcher) ResolverOption {
	return func(r *Resolver) {
		if f != nil {
			r.fetcher = f
		}
	}
}

// WithParser sets the parser used for remote documents.
func WithParser(p Parser) ResolverOption {
	return func(r *Resolver) {
		if p != nil {
			r.parser = p
		}
	}
}

// NewResolver creates a Resolver. Panics if store is nil.
func NewResolver(store DocumentStore, opts ...ResolverOption) *Resolver {
	if store == nil {
		panic("pricing: DocumentStore is required")
	}
	r := &Resolver{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the document behind loc.
func (r *Resolver) Resolve(ctx context.Context, loc Locator) (*Document, error) {
	if err := loc.Validate(); err != nil {
		return nil, err
	}

	if !loc.IsRemote() {
		return r.store.Get(ctx, loc.ID)
	}

	if r.fetcher == nil || r.parser == nil {
		return nil, ErrRemoteUnsupported
	}

	src, err := r.fetcher.Fetch(ctx, loc.URL)
	if err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return nil, err
		}
		return nil, errors.Join(ErrFetchFailed, err)
	}

	doc, err := r.parser.Parse(ctx, src)
	if err != nil {
		if errors.Is(err, ErrParseFailed) {
			return nil, err
		}
		return nil, errors.Join(ErrParseFailed, err)
	}
	doc.URL = loc.URL

	return doc, nil
}

// ResolveAll resolves every locator of a version map concurrently.
// The first failure cancels the remaining lookups and is returned.
func (r *Resolver) ResolveAll(ctx context.Context, locs map[string]Locator) (map[string]*Document, error) {
	var mu sync.Mutex
	docs := make(map[string]*Document, len(locs))

	g, gctx := errgroup.WithContext(ctx)
	for version, loc := range locs {
		g.Go(func() error {
			doc, err := r.Resolve(gctx, loc)
			if err != nil {
				return err
			}
			mu.Lock()
			docs[version] = doc
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
