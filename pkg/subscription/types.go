package subscription

import (
	"fmt"
	"maps"
)

// Selection is a per-service subscription: a plan, add-ons with quantities, or both.
type Selection struct {
	Plan   string         `bson:"plan,omitempty" json:"plan,omitempty"`
	AddOns map[string]int `bson:"addOns,omitempty" json:"addOns,omitempty"`
}

// IsEmpty reports whether nothing is selected.
func (s Selection) IsEmpty() bool {
	return s.Plan == "" && len(s.AddOns) == 0
}

// HasAddOn reports whether the add-on is part of the selection.
func (s Selection) HasAddOn(name string) bool {
	_, ok := s.AddOns[name]
	return ok
}

// Clone returns a copy that does not share the add-on map.
func (s Selection) Clone() Selection {
	return Selection{Plan: s.Plan, AddOns: maps.Clone(s.AddOns)}
}

// Violation describes a single broken rule.
type Violation struct {
	Rule   error  // One of the rule sentinels
	AddOn  string // Offending add-on, empty for plan-level rules
	Detail string
}

func (v *Violation) Error() string {
	if v.AddOn != "" {
		return fmt.Sprintf("%s: add-on %q: %s", v.Rule, v.AddOn, v.Detail)
	}
	return fmt.Sprintf("%s: %s", v.Rule, v.Detail)
}

func (v *Violation) Unwrap() error {
	return v.Rule
}
