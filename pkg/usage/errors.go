package usage

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	ErrInvalidPricingDefinition = errkind.New(errkind.ErrValidation, "usage.errors.invalid_pricing_definition", "usage limit is not defined in the pricing")
	ErrUnknownLimit             = errkind.New(errkind.ErrNotFound, "usage.errors.unknown_limit", "unknown usage limit")
	ErrInvalidAmount            = errkind.New(errkind.ErrValidation, "usage.errors.invalid_amount", "usage amount must not be negative")
)
