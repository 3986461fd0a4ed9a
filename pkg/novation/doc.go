// Package novation repairs contracts when the catalog changes underneath them.
//
// Engine implements catalog.Novator with two operations:
//
//   - NovatePricing runs when a pricing version is archived. Contracts bound
//     to that version are rebound to the latest active version (by createdAt,
//     ties broken by the greatest version string) with the supplied fallback
//     subscription, validated and given fresh usage levels. Either every
//     contract is valid and the batch is written, or nothing is.
//   - RemoveService runs when a service is disabled. The service is removed
//     from every contract; contracts left empty are disabled.
//
// Every touched contract keeps a history entry of its previous subscription.
// Writes go through contract.Store.BulkUpdate and are not transactional
// across contracts: a failed batch surfaces as ErrNovationFailed or
// ErrPartialNovation with no rollback.
package novation
