package usage

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

// Generate builds fresh usage levels for every tracked limit of doc.
// A limit is tracked when it has a period or is marked trackable.
// RENEWABLE limits require a period and get a reset timestamp of now + period;
// NON_RENEWABLE limits get a plain counter.
//
// The boolean is false when no limit qualifies, meaning the service needs no
// usage bucket at all.
func Generate(doc *pricing.Document, now time.Time) (Levels, bool, error) {
	if doc == nil {
		return nil, false, ErrInvalidPricingDefinition
	}

	levels := make(Levels)
	for _, name := range slices.Sorted(maps.Keys(doc.UsageLimits)) {
		limit := doc.UsageLimits[name]
		if !limit.Tracked() {
			continue
		}

		switch limit.Type {
		case pricing.UsageLimitRenewable:
			if limit.Period == nil {
				return nil, false, errors.Join(ErrInvalidPricingDefinition,
					fmt.Errorf("renewable usage limit %q has no period", name))
			}
			reset, err := NextReset(now, *limit.Period)
			if err != nil {
				return nil, false, errors.Join(ErrInvalidPricingDefinition,
					fmt.Errorf("usage limit %q: %w", name, err))
			}
			levels[name] = Level{ResetTimestamp: &reset}
		case pricing.UsageLimitNonRenewable:
			levels[name] = Level{}
		default:
			return nil, false, errors.Join(ErrInvalidPricingDefinition,
				fmt.Errorf("usage limit %q has unknown type %q", name, limit.Type))
		}
	}

	if len(levels) == 0 {
		return nil, false, nil
	}
	return levels, true, nil
}

// NextReset returns now advanced by one period.
// Months and years follow calendar arithmetic.
func NextReset(now time.Time, p pricing.Period) (time.Time, error) {
	if p.Value <= 0 {
		return time.Time{}, fmt.Errorf("period value must be positive, got %d", p.Value)
	}

	switch p.Unit {
	case pricing.UnitSecond:
		return now.Add(time.Duration(p.Value) * time.Second), nil
	case pricing.UnitMinute:
		return now.Add(time.Duration(p.Value) * time.Minute), nil
	case pricing.UnitHour:
		return now.Add(time.Duration(p.Value) * time.Hour), nil
	case pricing.UnitDay:
		return now.AddDate(0, 0, p.Value), nil
	case pricing.UnitMonth:
		return now.AddDate(0, p.Value, 0), nil
	case pricing.UnitYear:
		return now.AddDate(p.Value, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown period unit %q", p.Unit)
	}
}
