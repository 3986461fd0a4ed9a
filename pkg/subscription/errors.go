package subscription

import "github.com/dmitrymomot/pricingkit/pkg/errkind"

// Rule errors, reported in evaluation order. Every rule is a validation failure.
var (
	ErrMissingSelection        = errkind.New(errkind.ErrValidation, "subscription.errors.missing_selection", "subscription has no plan and no add-ons")
	ErrUnknownPlan             = errkind.New(errkind.ErrValidation, "subscription.errors.unknown_plan", "unknown plan")
	ErrUnknownAddOn            = errkind.New(errkind.ErrValidation, "subscription.errors.unknown_add_on", "unknown add-on")
	ErrAddOnUnavailableForPlan = errkind.New(errkind.ErrValidation, "subscription.errors.add_on_unavailable_for_plan", "add-on is not available for the plan")
	ErrMissingDependency       = errkind.New(errkind.ErrValidation, "subscription.errors.missing_dependency", "add-on dependency not selected")
	ErrConflictingAddOn        = errkind.New(errkind.ErrValidation, "subscription.errors.conflicting_add_on", "add-on excludes another selected add-on")
	ErrInvalidQuantity         = errkind.New(errkind.ErrValidation, "subscription.errors.invalid_quantity", "add-on quantity is out of range")
)
