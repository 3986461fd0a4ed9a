package pricing

import "context"

// DocumentStore persists locally stored pricing documents.
type DocumentStore interface {
	// Get returns the document with the given id or ErrPricingNotFound.
	Get(ctx context.Context, id string) (*Document, error)

	// Save creates or replaces a document. An empty ID is assigned on save.
	Save(ctx context.Context, doc *Document) error

	// Delete removes a document. Returns ErrPricingNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// Parser turns a pricing definition source into a Document.
type Parser interface {
	Parse(ctx context.Context, src []byte) (*Document, error)
}

// Fetcher downloads a remote pricing definition.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
