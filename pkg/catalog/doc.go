// Package catalog manages SaaS services and the lifecycle of their pricing
// versions.
//
// A Service holds two disjoint maps from version to pricing.Locator: active
// versions that new contracts may bind to, and archived ones that are kept for
// reference. Names are matched case-insensitively through FoldName.
//
// Catalog enforces the lifecycle defined by DefaultLifecycle and delegates
// contract repair to a Novator:
//
//   - ArchivePricing refuses to archive the last active version and requires
//     a fallback subscription. The Novator rebinds affected contracts before
//     the catalog is written, so a failed novation leaves the version active.
//   - DeletePricing only removes archived versions.
//   - Disable strips the service from every contract, then marks it disabled.
//
// Stores are provided for memory and MongoDB. The MongoDB store escapes
// version keys with versionkey and enforces unique names with an index on the
// folded name (see Indexes).
package catalog
