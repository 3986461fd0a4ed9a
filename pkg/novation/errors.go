package novation

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/pricingkit/pkg/errkind"
)

var (
	ErrNovationFailed   = errkind.New(errkind.ErrUpstream, "novation.errors.novation_failed", "novation failed")
	ErrPartialNovation  = errkind.New(errkind.ErrPartialFailure, "novation.errors.partial_novation", "novation partially failed")
	ErrInvalidContracts = errkind.New(errkind.ErrValidation, "novation.errors.invalid_contracts", "contracts failed validation against the fallback")
	ErrNoActivePricing  = errkind.New(errkind.ErrInvalidState, "novation.errors.no_active_pricing", "no active pricing to novate to")
	ErrMissingService   = errkind.New(errkind.ErrValidation, "novation.errors.missing_service", "service name is required")
)

// ValidationError reports the contracts whose subscription would be invalid
// after novation. It matches ErrInvalidContracts and every underlying rule.
type ValidationError struct {
	ContractIDs []string
	Err         error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrInvalidContracts, strings.Join(e.ContractIDs, ", "), e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidContracts, e.Err}
}
