package catalog

import "context"

// Store persists catalog services. Names are matched case-insensitively.
type Store interface {
	// Get returns the service whose name equals name, or ErrServiceNotFound.
	Get(ctx context.Context, name string) (*Service, error)

	// Search returns services whose name contains query, sorted by name.
	// Disabled services are skipped unless includeDisabled is set.
	Search(ctx context.Context, query string, includeDisabled bool) ([]*Service, error)

	// Create stores a new service. Returns ErrServiceExists on a name clash.
	Create(ctx context.Context, svc *Service) error

	Update(ctx context.Context, svc *Service) error
	Delete(ctx context.Context, name string) error
}
