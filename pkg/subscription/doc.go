// Package subscription validates a per-service subscription (a plan plus
// add-ons with quantities) against a resolved pricing document.
//
// Rules are evaluated in a fixed order and each maps to its own sentinel:
//
//   - ErrMissingSelection: neither a plan nor an add-on is selected
//   - ErrUnknownPlan: the plan is not defined by the pricing
//   - ErrUnknownAddOn: the add-on is not defined by the pricing
//   - ErrAddOnUnavailableForPlan: the add-on restricts availableFor and the plan is not listed
//   - ErrMissingDependency: a dependsOn add-on is not selected
//   - ErrConflictingAddOn: an excludes add-on is selected
//   - ErrInvalidQuantity: quantity outside [min, max] or off the step grid (defaults 1)
//
// Add-ons are checked in name order. Validate returns the first violation;
// ValidateAll collects them all. Every violation matches errkind.ErrValidation.
//
//	err := subscription.Validate(subscription.Selection{
//		Plan:   "PRO",
//		AddOns: map[string]int{"extraSeats": 3},
//	}, doc)
//	if errors.Is(err, subscription.ErrInvalidQuantity) {
//		// ...
//	}
package subscription
