// Package evalctx builds the flattened contexts consumed by the external
// feature expression evaluator.
//
// For every contracted service of a contract the Builder resolves the bound
// pricing, computes the effective feature and usage limit values of the
// subscription and merges them into one namespace. Keys are
// "<lowercased service>-<name>", so services sharing feature names never
// collide:
//
//	b := evalctx.NewBuilder(cat)
//	ec, err := b.Build(ctx, contract)
//	// ec.Pricing.Features["zoom-meetings"]
//	// ec.Subscription["zoom-maxMeetings"]
//	// ec.Evaluation["zoom-meetings"] == "pricingContext['features']['zoom-meetings']"
//
// Effective values start from the plan value, falling back to the feature or
// limit default. Selected add-ons then override values by name, and their
// usage limit extensions add extension × quantity to numeric limits.
// Feature expressions are rewritten so their pricingContext and
// subscriptionContext references point at the namespaced keys.
package evalctx
