package contract

import "context"

// Store persists contracts. Finders skip disabled contracts.
type Store interface {
	Get(ctx context.Context, id string) (*Contract, error)
	GetByUser(ctx context.Context, userID string) (*Contract, error)

	// FindByService returns contracts that contract service at any version.
	FindByService(ctx context.Context, service string) ([]*Contract, error)

	// FindByServiceVersion returns contracts bound to service at version.
	FindByServiceVersion(ctx context.Context, service, version string) ([]*Contract, error)

	Create(ctx context.Context, c *Contract) error
	Update(ctx context.Context, c *Contract) error

	// BulkUpdate replaces every contract in one batch. With disable set, each
	// contract is also marked disabled. Contracts that fail do not stop the
	// rest of the batch.
	BulkUpdate(ctx context.Context, contracts []*Contract, disable bool) error
}
