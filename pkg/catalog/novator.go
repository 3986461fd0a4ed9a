package catalog

import (
	"context"

	"github.com/dmitrymomot/pricingkit/pkg/subscription"
)

// PricingNovation asks to rebind every contract of an archived version.
type PricingNovation struct {
	Service  *Service               // State after the version was archived
	Version  string                 // The archived version
	Fallback subscription.Selection // Subscription applied to rebound contracts
}

// NovationResult counts the contracts touched by a novation.
type NovationResult struct {
	Novated  int `json:"novated"`
	Disabled int `json:"disabled"`
}

// Novator repairs contracts invalidated by catalog changes.
type Novator interface {
	NovatePricing(ctx context.Context, n PricingNovation) (NovationResult, error)
	RemoveService(ctx context.Context, service string) (NovationResult, error)
}
