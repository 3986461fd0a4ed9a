// Package pricing models versioned pricing documents and resolves them from
// locators.
//
// A pricing document describes one version of a service's offer: features,
// usage limits, plans and add-ons. Services reference their pricings through a
// Locator, which points either at a locally stored document (ID) or at a remote
// definition (URL). Remote definitions are fetched and parsed on every resolve;
// they are never cached authoritatively.
//
// # Usage
//
//	store := pricing.NewMongoStore(db)
//	resolver := pricing.NewResolver(store,
//		pricing.WithFetcher(pricing.NewHTTPFetcher(cfg)),
//		pricing.WithParser(pricing.NewYAMLParser()),
//	)
//
//	doc, err := resolver.Resolve(ctx, pricing.RemoteLocator("https://example.com/pricing.yaml"))
//	if errors.Is(err, errkind.ErrUpstream) {
//		// fetch or parse failure
//	}
//
// # Latest version
//
// Latest picks the most recently created document. Ties on CreatedAt are
// broken by the lexicographically greatest version string.
package pricing
