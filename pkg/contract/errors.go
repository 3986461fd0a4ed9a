package contract

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

var (
	ErrContractNotFound  = errkind.New(errkind.ErrNotFound, "contract.errors.not_found", "contract not found")
	ErrContractExists    = errkind.New(errkind.ErrAlreadyExists, "contract.errors.already_exists", "contract already exists")
	ErrNoServices        = errkind.New(errkind.ErrValidation, "contract.errors.no_services", "contract has no contracted services")
	ErrDuplicateService  = errkind.New(errkind.ErrValidation, "contract.errors.duplicate_service", "service is contracted more than once")
	ErrMissingUserID     = errkind.New(errkind.ErrValidation, "contract.errors.missing_user_id", "user id is required")
	ErrContractDisabled  = errkind.New(errkind.ErrInvalidState, "contract.errors.disabled", "contract is disabled")
	ErrServiceNotInScope = errkind.New(errkind.ErrNotFound, "contract.errors.service_not_contracted", "service is not contracted")
)
