package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// createdAt layouts accepted by the YAML parser, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

type yamlValue struct {
	Value any `yaml:"value"`
}

type yamlFeature struct {
	Description      string    `yaml:"description"`
	ValueType        ValueType `yaml:"valueType"`
	DefaultValue     any       `yaml:"defaultValue"`
	Expression       string    `yaml:"expression"`
	ServerExpression string    `yaml:"serverExpression"`
}

type yamlUsageLimit struct {
	Description    string         `yaml:"description"`
	ValueType      ValueType      `yaml:"valueType"`
	DefaultValue   any            `yaml:"defaultValue"`
	Type           UsageLimitType `yaml:"type"`
	Trackable      bool           `yaml:"trackable"`
	Period         *Period        `yaml:"period"`
	LinkedFeatures []string       `yaml:"linkedFeatures"`
}

type yamlPlan struct {
	Description string               `yaml:"description"`
	Price       any                  `yaml:"price"`
	Private     bool                 `yaml:"private"`
	Features    map[string]yamlValue `yaml:"features"`
	UsageLimits map[string]yamlValue `yaml:"usageLimits"`
}

type yamlAddOn struct {
	Description             string                   `yaml:"description"`
	Price                   any                      `yaml:"price"`
	AvailableFor            []string                 `yaml:"availableFor"`
	DependsOn               []string                 `yaml:"dependsOn"`
	Excludes                []string                 `yaml:"excludes"`
	SubscriptionConstraints *SubscriptionConstraints `yaml:"subscriptionConstraints"`
	Features                map[string]yamlValue     `yaml:"features"`
	UsageLimits             map[string]yamlValue     `yaml:"usageLimits"`
	UsageLimitsExtensions   map[string]yamlValue     `yaml:"usageLimitsExtensions"`
}

type yamlPricing struct {
	SaaSName    string                    `yaml:"saasName"`
	Version     string                    `yaml:"version"`
	Currency    string                    `yaml:"currency"`
	CreatedAt   string                    `yaml:"createdAt"`
	Features    map[string]yamlFeature    `yaml:"features"`
	UsageLimits map[string]yamlUsageLimit `yaml:"usageLimits"`
	Plans       map[string]yamlPlan       `yaml:"plans"`
	AddOns      map[string]yamlAddOn      `yaml:"addOns"`
}

// YAMLParser parses Pricing2Yaml-style definitions.
type YAMLParser struct{}

// NewYAMLParser returns a Parser for YAML pricing definitions.
func NewYAMLParser() Parser {
	return YAMLParser{}
}

// Parse decodes src into a Document.
func (YAMLParser) Parse(ctx context.Context, src []byte) (*Document, error) {
	var raw yamlPricing
	if err := yaml.Unmarshal(src, &raw); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}

	if raw.SaaSName == "" {
		return nil, errors.Join(ErrParseFailed, errors.New("saasName is required"))
	}
	if raw.Version == "" {
		return nil, errors.Join(ErrParseFailed, errors.New("version is required"))
	}
	if len(raw.Features) == 0 {
		return nil, errors.Join(ErrParseFailed, errors.New("at least one feature is required"))
	}

	createdAt, err := parseDate(raw.CreatedAt)
	if err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}

	doc := &Document{
		SaaSName:  raw.SaaSName,
		Version:   raw.Version,
		Currency:  raw.Currency,
		CreatedAt: createdAt,
		Features:  make(map[string]Feature, len(raw.Features)),
	}

	for name, f := range raw.Features {
		doc.Features[name] = Feature{
			Name:             name,
			Description:      f.Description,
			ValueType:        f.ValueType,
			DefaultValue:     f.DefaultValue,
			Expression:       f.Expression,
			ServerExpression: f.ServerExpression,
		}
	}

	if len(raw.UsageLimits) > 0 {
		doc.UsageLimits = make(map[string]UsageLimit, len(raw.UsageLimits))
		for name, l := range raw.UsageLimits {
			switch l.Type {
			case UsageLimitRenewable, UsageLimitNonRenewable:
			default:
				return nil, errors.Join(ErrParseFailed, fmt.Errorf("usage limit %s has invalid type %q", name, l.Type))
			}
			doc.UsageLimits[name] = UsageLimit{
				Name:           name,
				Description:    l.Description,
				ValueType:      l.ValueType,
				DefaultValue:   l.DefaultValue,
				Type:           l.Type,
				Trackable:      l.Trackable,
				Period:         l.Period,
				LinkedFeatures: l.LinkedFeatures,
			}
		}
	}

	if len(raw.Plans) > 0 {
		doc.Plans = make(map[string]Plan, len(raw.Plans))
		for name, p := range raw.Plans {
			doc.Plans[name] = Plan{
				Name:        name,
				Description: p.Description,
				Price:       p.Price,
				Private:     p.Private,
				Features:    unwrapValues(p.Features),
				UsageLimits: unwrapValues(p.UsageLimits),
			}
		}
	}

	if len(raw.AddOns) > 0 {
		doc.AddOns = make(map[string]AddOn, len(raw.AddOns))
		for name, a := range raw.AddOns {
			extensions, err := unwrapNumbers(a.UsageLimitsExtensions)
			if err != nil {
				return nil, errors.Join(ErrParseFailed, fmt.Errorf("add-on %s: %w", name, err))
			}
			doc.AddOns[name] = AddOn{
				Name:                    name,
				Description:             a.Description,
				Price:                   a.Price,
				AvailableFor:            a.AvailableFor,
				DependsOn:               a.DependsOn,
				Excludes:                a.Excludes,
				SubscriptionConstraints: a.SubscriptionConstraints,
				Features:                unwrapValues(a.Features),
				UsageLimits:             unwrapValues(a.UsageLimits),
				UsageLimitsExtensions:   extensions,
			}
		}
	}

	return doc, nil
}

// parseDate requires a date. CreatedAt orders versions and must stay
// stable across re-parses of a remote pricing.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("createdAt is required")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("createdAt %q is not a valid date", s)
}

func unwrapValues(in map[string]yamlValue) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v.Value
	}
	return out
}

func unwrapNumbers(in map[string]yamlValue) (map[string]float64, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(in))
	for k, v := range in {
		n, ok := ToFloat(v.Value)
		if !ok {
			return nil, fmt.Errorf("extension %s must be numeric", k)
		}
		out[k] = n
	}
	return out, nil
}
