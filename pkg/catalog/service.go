package catalog

import (
	"maps"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

// FoldName returns the case-folded form used to match service names.
func FoldName(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Service is a catalog entry: a SaaS product with its pricing versions.
// A version lives in exactly one of ActivePricings and ArchivedPricings.
type Service struct {
	ID               string                     `bson:"_id" json:"id"`
	Name             string                     `bson:"name" json:"name"`
	FoldedName       string                     `bson:"foldedName" json:"-"`
	Disabled         bool                       `bson:"disabled" json:"disabled"`
	ActivePricings   map[string]pricing.Locator `bson:"activePricings" json:"activePricings"`
	ArchivedPricings map[string]pricing.Locator `bson:"archivedPricings" json:"archivedPricings"`
	CreatedAt        time.Time                  `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time                  `bson:"updatedAt" json:"updatedAt"`
}

// State returns the lifecycle state of version.
func (s *Service) State(version string) PricingState {
	if _, ok := s.ActivePricings[version]; ok {
		return StateActive
	}
	if _, ok := s.ArchivedPricings[version]; ok {
		return StateArchived
	}
	return StateAbsent
}

// Locator returns the locator of version from either map.
func (s *Service) Locator(version string) (pricing.Locator, bool) {
	if loc, ok := s.ActivePricings[version]; ok {
		return loc, true
	}
	loc, ok := s.ArchivedPricings[version]
	return loc, ok
}

// ActiveVersions returns the active versions in sorted order.
func (s *Service) ActiveVersions() []string {
	return slices.Sorted(maps.Keys(s.ActivePricings))
}

// ArchivedVersions returns the archived versions in sorted order.
func (s *Service) ArchivedVersions() []string {
	return slices.Sorted(maps.Keys(s.ArchivedPricings))
}

// setState moves version into the map of state, or drops it for StateAbsent.
func (s *Service) setState(version string, state PricingState, loc pricing.Locator) {
	delete(s.ActivePricings, version)
	delete(s.ArchivedPricings, version)

	switch state {
	case StateActive:
		if s.ActivePricings == nil {
			s.ActivePricings = make(map[string]pricing.Locator)
		}
		s.ActivePricings[version] = loc
	case StateArchived:
		if s.ArchivedPricings == nil {
			s.ArchivedPricings = make(map[string]pricing.Locator)
		}
		s.ArchivedPricings[version] = loc
	}
}

// Clone returns a copy that shares no maps with s.
func (s *Service) Clone() *Service {
	if s == nil {
		return nil
	}
	out := *s
	out.ActivePricings = maps.Clone(s.ActivePricings)
	out.ArchivedPricings = maps.Clone(s.ArchivedPricings)
	return &out
}
