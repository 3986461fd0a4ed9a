package pricing

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	ErrPricingNotFound = errkind.New(errkind.ErrNotFound, "pricing.errors.not_found", "pricing not found")
	ErrInvalidLocator  = errkind.New(errkind.ErrValidation, "pricing.errors.invalid_locator", "pricing locator needs exactly one of id or url")

	// Remote documents
	ErrFetchFailed       = errkind.New(errkind.ErrUpstream, "pricing.errors.fetch_failed", "failed to fetch remote pricing")
	ErrParseFailed       = errkind.New(errkind.ErrUpstream, "pricing.errors.parse_failed", "failed to parse pricing")
	ErrRemoteUnsupported = errkind.New(errkind.ErrUpstream, "pricing.errors.remote_unsupported", "remote pricings are not supported")
	ErrResponseTooLarge  = errkind.New(errkind.ErrUpstream, "pricing.errors.response_too_large", "remote pricing response too large")
)
