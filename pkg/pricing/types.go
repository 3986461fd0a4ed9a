package pricing

import (
	"maps"
	"slices"
	"time"
)

// ValueType is the type of a feature or usage limit value.
type ValueType string

const (
	ValueTypeBoolean ValueType = "BOOLEAN"
	ValueTypeNumeric ValueType = "NUMERIC"
	ValueTypeText    ValueType = "TEXT"
)

// UsageLimitType tells whether a usage limit is reset periodically.
type UsageLimitType string

const (
	UsageLimitRenewable    UsageLimitType = "RENEWABLE"
	UsageLimitNonRenewable UsageLimitType = "NON_RENEWABLE"
)

// PeriodUnit is the unit of a usage limit reset period.
type PeriodUnit string

const (
	UnitSecond PeriodUnit = "SEC"
	UnitMinute PeriodUnit = "MIN"
	UnitHour   PeriodUnit = "HOUR"
	UnitDay    PeriodUnit = "DAY"
	UnitMonth  PeriodUnit = "MONTH"
	UnitYear   PeriodUnit = "YEAR"
)

// Period is the reset interval of a renewable usage limit.
type Period struct {
	Value int        `bson:"value" json:"value" yaml:"value"`
	Unit  PeriodUnit `bson:"unit" json:"unit" yaml:"unit"`
}

// Feature is a capability exposed by a pricing.
type Feature struct {
	Name         string    `bson:"name" json:"name"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	ValueType    ValueType `bson:"valueType" json:"valueType"`
	DefaultValue any       `bson:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	// Expression is evaluated by the external expression evaluator against the
	// flattened pricing and subscription contexts.
	Expression       string `bson:"expression,omitempty" json:"expression,omitempty"`
	ServerExpression string `bson:"serverExpression,omitempty" json:"serverExpression,omitempty"`
}

// UsageLimit is a quantitative or boolean cap. Its live per-contract counter
// is a usage level.
type UsageLimit struct {
	Name           string         `bson:"name" json:"name"`
	Description    string         `bson:"description,omitempty" json:"description,omitempty"`
	ValueType      ValueType      `bson:"valueType" json:"valueType"`
	DefaultValue   any            `bson:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	Type           UsageLimitType `bson:"type" json:"type"`
	Trackable      bool           `bson:"trackable,omitempty" json:"trackable,omitempty"`
	Period         *Period        `bson:"period,omitempty" json:"period,omitempty"`
	LinkedFeatures []string       `bson:"linkedFeatures,omitempty" json:"linkedFeatures,omitempty"`
}

// Tracked reports whether the limit needs a usage counter.
func (l UsageLimit) Tracked() bool {
	return l.Period != nil || l.Trackable
}

// Plan maps feature and usage limit names to concrete values.
type Plan struct {
	Name        string         `bson:"name" json:"name"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	Price       any            `bson:"price,omitempty" json:"price,omitempty"`
	Private     bool           `bson:"private,omitempty" json:"private,omitempty"`
	Features    map[string]any `bson:"features,omitempty" json:"features,omitempty"`
	UsageLimits map[string]any `bson:"usageLimits,omitempty" json:"usageLimits,omitempty"`
}

// SubscriptionConstraints bound the quantity of an add-on.
// Zero values fall back to 1.
type SubscriptionConstraints struct {
	MinQuantity  int `bson:"minQuantity,omitempty" json:"minQuantity,omitempty" yaml:"minQuantity"`
	MaxQuantity  int `bson:"maxQuantity,omitempty" json:"maxQuantity,omitempty" yaml:"maxQuantity"`
	QuantityStep int `bson:"quantityStep,omitempty" json:"quantityStep,omitempty" yaml:"quantityStep"`
}

// Bounds returns the effective min, max and step.
func (c *SubscriptionConstraints) Bounds() (minQty, maxQty, step int) {
	minQty, maxQty, step = 1, 1, 1
	if c == nil {
		return minQty, maxQty, step
	}
	if c.MinQuantity > 0 {
		minQty = c.MinQuantity
	}
	if c.MaxQuantity > 0 {
		maxQty = c.MaxQuantity
	}
	if c.QuantityStep > 0 {
		step = c.QuantityStep
	}
	return minQty, maxQty, step
}

// AddOn is an optional extension to a plan.
type AddOn struct {
	Name                    string                   `bson:"name" json:"name"`
	Description             string                   `bson:"description,omitempty" json:"description,omitempty"`
	Price                   any                      `bson:"price,omitempty" json:"price,omitempty"`
	AvailableFor            []string                 `bson:"availableFor,omitempty" json:"availableFor,omitempty"`
	DependsOn               []string                 `bson:"dependsOn,omitempty" json:"dependsOn,omitempty"`
	Excludes                []string                 `bson:"excludes,omitempty" json:"excludes,omitempty"`
	SubscriptionConstraints *SubscriptionConstraints `bson:"subscriptionConstraints,omitempty" json:"subscriptionConstraints,omitempty"`
	Features                map[string]any           `bson:"features,omitempty" json:"features,omitempty"`
	UsageLimits             map[string]any           `bson:"usageLimits,omitempty" json:"usageLimits,omitempty"`
	// UsageLimitsExtensions are additive deltas, scaled by the subscribed quantity.
	UsageLimitsExtensions map[string]float64 `bson:"usageLimitsExtensions,omitempty" json:"usageLimitsExtensions,omitempty"`
}

// Document is a fully materialized pricing version of a service.
type Document struct {
	ID          string                `bson:"_id,omitempty" json:"id,omitempty"`
	SaaSName    string                `bson:"saasName" json:"saasName"`
	Version     string                `bson:"version" json:"version"`
	Currency    string                `bson:"currency" json:"currency"`
	CreatedAt   time.Time             `bson:"createdAt" json:"createdAt"`
	URL         string                `bson:"url,omitempty" json:"url,omitempty"`
	Features    map[string]Feature    `bson:"features" json:"features"`
	UsageLimits map[string]UsageLimit `bson:"usageLimits,omitempty" json:"usageLimits,omitempty"`
	Plans       map[string]Plan       `bson:"plans,omitempty" json:"plans,omitempty"`
	AddOns      map[string]AddOn      `bson:"addOns,omitempty" json:"addOns,omitempty"`
}

// Plan returns the named plan.
func (d *Document) Plan(name string) (Plan, bool) {
	p, ok := d.Plans[name]
	return p, ok
}

// AddOn returns the named add-on.
func (d *Document) AddOn(name string) (AddOn, bool) {
	a, ok := d.AddOns[name]
	return a, ok
}

// Clone returns a copy that shares no maps or slices with d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Features = maps.Clone(d.Features)
	if d.UsageLimits != nil {
		out.UsageLimits = make(map[string]UsageLimit, len(d.UsageLimits))
		for k, l := range d.UsageLimits {
			l.LinkedFeatures = slices.Clone(l.LinkedFeatures)
			if l.Period != nil {
				p := *l.Period
				l.Period = &p
			}
			out.UsageLimits[k] = l
		}
	}
	if d.Plans != nil {
		out.Plans = make(map[string]Plan, len(d.Plans))
		for k, p := range d.Plans {
			p.Features = maps.Clone(p.Features)
			p.UsageLimits = maps.Clone(p.UsageLimits)
			out.Plans[k] = p
		}
	}
	if d.AddOns != nil {
		out.AddOns = make(map[string]AddOn, len(d.AddOns))
		for k, a := range d.AddOns {
			a.AvailableFor = slices.Clone(a.AvailableFor)
			a.DependsOn = slices.Clone(a.DependsOn)
			a.Excludes = slices.Clone(a.Excludes)
			if a.SubscriptionConstraints != nil {
				c := *a.SubscriptionConstraints
				a.SubscriptionConstraints = &c
			}
			a.Features = maps.Clone(a.Features)
			a.UsageLimits = maps.Clone(a.UsageLimits)
			a.UsageLimitsExtensions = maps.Clone(a.UsageLimitsExtensions)
			out.AddOns[k] = a
		}
	}
	return &out
}

// Latest returns the version and document with the most recent CreatedAt.
// Equal timestamps are broken by the lexicographically greatest version so the
// choice never depends on map iteration order. Returns false for an empty map.
func Latest(docs map[string]*Document) (string, *Document, bool) {
	var (
		latestVersion string
		latest        *Document
	)
	for version, doc := range docs {
		if doc == nil {
			continue
		}
		if latest == nil ||
			doc.CreatedAt.After(latest.CreatedAt) ||
			(doc.CreatedAt.Equal(latest.CreatedAt) && version > latestVersion) {
			latestVersion, latest = version, doc
		}
	}
	return latestVersion, latest, latest != nil
}

// ToFloat converts a numeric value decoded from YAML, JSON or BSON to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
