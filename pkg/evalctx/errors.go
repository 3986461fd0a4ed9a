package evalctx

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	ErrNilContract      = errkind.New(errkind.ErrValidation, "evalctx.errors.nil_contract", "contract is nil")
	ErrContractDisabled = errkind.New(errkind.ErrInvalidState, "evalctx.errors.contract_disabled", "contract is disabled")
	ErrStaleSelection   = errkind.New(errkind.ErrInvalidState, "evalctx.errors.stale_selection", "subscription no longer matches its pricing")
)
