package catalog

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	ErrServiceNotFound = errkind.New(errkind.ErrNotFound, "catalog.errors.service_not_found", "service not found")
	ErrServiceExists   = errkind.New(errkind.ErrAlreadyExists, "catalog.errors.service_exists", "service already exists")
	ErrServiceDisabled = errkind.New(errkind.ErrInvalidState, "catalog.errors.service_disabled", "service is disabled")
	ErrMissingName     = errkind.New(errkind.ErrValidation, "catalog.errors.missing_name", "service name is required")
	ErrNameMismatch    = errkind.New(errkind.ErrValidation, "catalog.errors.name_mismatch", "pricing saasName does not match the service name")
	ErrEmptySource     = errkind.New(errkind.ErrValidation, "catalog.errors.empty_source", "pricing source is empty")

	// Pricing lifecycle
	ErrNoActivePricing    = errkind.New(errkind.ErrInvalidState, "catalog.errors.no_active_pricing", "service has no active pricing")
	ErrVersionExists      = errkind.New(errkind.ErrAlreadyExists, "catalog.errors.version_exists", "pricing version already exists")
	ErrPricingNotFound    = errkind.New(errkind.ErrNotFound, "catalog.errors.pricing_not_found", "pricing version not found")
	ErrLastActivePricing  = errkind.New(errkind.ErrInvalidState, "catalog.errors.last_active_pricing", "cannot archive the last active pricing")
	ErrMissingFallback    = errkind.New(errkind.ErrMissingFallback, "catalog.errors.missing_fallback", "fallback subscription is required")
	ErrPricingNotArchived = errkind.New(errkind.ErrInvalidState, "catalog.errors.pricing_not_archived", "pricing version is not archived")
	ErrInvalidTransition  = errkind.New(errkind.ErrInvalidState, "catalog.errors.invalid_transition", "invalid pricing lifecycle transition")
)
