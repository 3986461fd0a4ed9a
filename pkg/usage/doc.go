// Package usage turns the usage limits of a pricing document into per-contract
// counters (usage levels) and keeps them current.
//
// Generate creates the initial levels. Only limits that carry a period or are
// explicitly trackable get a counter; RENEWABLE limits also get a reset
// timestamp. When nothing qualifies Generate returns false, which callers use
// to drop the service's usage bucket entirely instead of storing an empty map.
//
//	levels, tracked, err := usage.Generate(doc, time.Now())
//	if err != nil {
//		return err // usage.ErrInvalidPricingDefinition
//	}
//	if !tracked {
//		delete(contract.UsageLevels, service)
//	}
//
// Renew resets expired renewable counters while preserving their cadence, and
// Consume increments a counter.
package usage
