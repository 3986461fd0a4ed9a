package usage

import "time"

// Level is the live counter of a usage limit within a contract.
type Level struct {
	Consumed       float64    `bson:"consumed" json:"consumed"`
	ResetTimestamp *time.Time `bson:"resetTimestamp,omitempty" json:"resetTimestamp,omitempty"`
}

// Renewable reports whether the level is reset periodically.
func (l Level) Renewable() bool {
	return l.ResetTimestamp != nil
}

// Expired reports whether a renewable level is due for reset at now.
func (l Level) Expired(now time.Time) bool {
	return l.ResetTimestamp != nil && !now.Before(*l.ResetTimestamp)
}

// Levels maps usage limit names to counters of a single service.
type Levels map[string]Level

// Clone returns a deep copy.
func (l Levels) Clone() Levels {
	if l == nil {
		return nil
	}
	out := make(Levels, len(l))
	for name, lvl := range l {
		if lvl.ResetTimestamp != nil {
			ts := *lvl.ResetTimestamp
			lvl.ResetTimestamp = &ts
		}
		out[name] = lvl
	}
	return out
}
