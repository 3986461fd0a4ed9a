// Package errkind defines the error taxonomy shared across the catalog,
// novation, validation and authorization packages.
//
// Every package declares its own sentinel errors, but each sentinel belongs to
// exactly one kind (not found, already exists, invalid state, validation
// failure, missing fallback, forbidden, upstream failure, partial failure).
// Callers that only need the coarse outcome use Classify; callers that need
// the precise reason use errors.Is against the package sentinel.
//
//	var ErrServiceNotFound = errkind.New(errkind.ErrNotFound,
//		"catalog.errors.service_not_found", "service not found")
//
//	errors.Is(err, ErrServiceNotFound)    // precise
//	errors.Is(err, errkind.ErrNotFound)   // kind
//	errkind.Key(err)                      // "catalog.errors.service_not_found"
//	errkind.Classify(err).Code            // 404
//
// Error returns the readable message. The key is a translation key and stays
// stable when the message is reworded.
//
// ErrPartialFailure is reserved for operations that wrote some but not all of
// their batches; it is the only outcome that signals "partially happened" and
// requires manual reconciliation.
package errkind
