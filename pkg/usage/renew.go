package usage

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

// Renew resets every expired renewable counter in place and returns how many
// were reset. The next reset keeps the original cadence: it is advanced by
// whole periods until it lies after now. Levels whose limit is no longer part
// of doc are left untouched.
func Renew(levels Levels, doc *pricing.Document, now time.Time) (int, error) {
	if doc == nil {
		return 0, ErrInvalidPricingDefinition
	}

	renewed := 0
	for name, lvl := range levels {
		if !lvl.Expired(now) {
			continue
		}
		limit, ok := doc.UsageLimits[name]
		if !ok || limit.Period == nil {
			continue
		}

		next := *lvl.ResetTimestamp
		for !next.After(now) {
			var err error
			next, err = NextReset(next, *limit.Period)
			if err != nil {
				return renewed, errors.Join(ErrInvalidPricingDefinition,
					fmt.Errorf("usage limit %q: %w", name, err))
			}
		}

		levels[name] = Level{Consumed: 0, ResetTimestamp: &next}
		renewed++
	}

	return renewed, nil
}

// Consume adds amount to the named counter.
func Consume(levels Levels, limit string, amount float64) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	lvl, ok := levels[limit]
	if !ok {
		return ErrUnknownLimit
	}
	lvl.Consumed += amount
	levels[limit] = lvl
	return nil
}
