// Package contract models a user's subscription to one or more catalog
// services and persists it.
//
// A Contract pins each service to a pricing version (ContractedServices),
// records the chosen plan and add-ons, keeps live usage counters per service
// and accumulates a history of previous subscriptions. All per-service maps
// are keyed by ServiceKey, the lower-cased service name.
//
// Store has in-memory and MongoDB implementations. BulkUpdate is the batch
// primitive used by novation: it replaces whole documents and, with disable
// set, marks them disabled in the same write.
//
// Service creates contracts after validating every selection against its
// pricing and renews expired usage counters:
//
//	svc := contract.NewService(store, catalog)
//	c, err := svc.Create(ctx, contract.CreateRequest{
//		UserContact:        contract.UserContact{UserID: "u-1", Username: "alice"},
//		ContractedServices: map[string]string{"Zoom": "2.0"},
//		SubscriptionPlans:  map[string]string{"Zoom": "PRO"},
//	})
package contract
