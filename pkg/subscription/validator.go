package subscription

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

// Validate checks sel against doc and returns the first violation, or nil.
func Validate(sel Selection, doc *pricing.Document) error {
	if v := check(sel, doc, true); len(v) > 0 {
		return v[0]
	}
	return nil
}

// ValidateAll returns every violation of sel against doc, in evaluation order.
func ValidateAll(sel Selection, doc *pricing.Document) []*Violation {
	return check(sel, doc, false)
}

func check(sel Selection, doc *pricing.Document, firstOnly bool) []*Violation {
	if sel.IsEmpty() {
		return []*Violation{{Rule: ErrMissingSelection, Detail: "neither a plan nor an add-on is selected"}}
	}

	var out []*Violation
	report := func(v *Violation) bool {
		out = append(out, v)
		return firstOnly
	}

	if sel.Plan != "" {
		if _, ok := doc.Plan(sel.Plan); !ok {
			if report(&Violation{Rule: ErrUnknownPlan, Detail: fmt.Sprintf("plan %q does not exist in pricing %s", sel.Plan, doc.Version)}) {
				return out
			}
		}
	}

	// Sorted so the first reported violation does not depend on map order.
	names := slices.Sorted(maps.Keys(sel.AddOns))
	for _, name := range names {
		addOn, ok := doc.AddOn(name)
		if !ok {
			if report(&Violation{Rule: ErrUnknownAddOn, AddOn: name, Detail: "not defined in pricing " + doc.Version}) {
				return out
			}
			continue
		}

		for _, v := range checkAddOn(sel, name, addOn) {
			if report(v) {
				return out
			}
		}
	}

	return out
}

func checkAddOn(sel Selection, name string, addOn pricing.AddOn) []*Violation {
	var out []*Violation

	if sel.Plan != "" && len(addOn.AvailableFor) > 0 && !slices.Contains(addOn.AvailableFor, sel.Plan) {
		out = append(out, &Violation{
			Rule:   ErrAddOnUnavailableForPlan,
			AddOn:  name,
			Detail: fmt.Sprintf("not available for plan %q", sel.Plan),
		})
	}

	for _, dep := range addOn.DependsOn {
		if !sel.HasAddOn(dep) {
			out = append(out, &Violation{
				Rule:   ErrMissingDependency,
				AddOn:  name,
				Detail: fmt.Sprintf("requires add-on %q", dep),
			})
		}
	}

	for _, ex := range addOn.Excludes {
		if sel.HasAddOn(ex) {
			out = append(out, &Violation{
				Rule:   ErrConflictingAddOn,
				AddOn:  name,
				Detail: fmt.Sprintf("cannot be combined with add-on %q", ex),
			})
		}
	}

	qty := sel.AddOns[name]
	minQty, maxQty, step := addOn.SubscriptionConstraints.Bounds()
	if qty < minQty || qty > maxQty || (qty-minQty)%step != 0 {
		out = append(out, &Violation{
			Rule:   ErrInvalidQuantity,
			AddOn:  name,
			Detail: fmt.Sprintf("quantity %d outside [%d, %d] with step %d", qty, minQty, maxQty, step),
		})
	}

	return out
}

// ValidateContract validates every service selection against the pricing
// document resolved for it. docs is keyed like selections. Violations of all
// services are joined; a service without a document yields
// pricing.ErrPricingNotFound.
func ValidateContract(selections map[string]Selection, docs map[string]*pricing.Document) error {
	var errs []error
	for _, service := range slices.Sorted(maps.Keys(selections)) {
		doc, ok := docs[service]
		if !ok || doc == nil {
			errs = append(errs, fmt.Errorf("%s: %w", service, pricing.ErrPricingNotFound))
			continue
		}
		if err := Validate(selections[service], doc); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", service, err))
		}
	}
	return errors.Join(errs...)
}
