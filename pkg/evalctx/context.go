package evalctx

import (
	"regexp"
	"strings"
)

// Separator joins a service key and an item name.
const Separator = "-"

// Context is the flattened input of the expression evaluator. Every key is
// namespaced as "<service>-<name>" with the service name lowercased.
type Context struct {
	Pricing      PricingContext     `json:"pricingContext"`
	Subscription map[string]float64 `json:"subscriptionContext"`
	Evaluation   map[string]string  `json:"evaluationContext"`
}

// PricingContext holds the effective feature and usage limit values.
type PricingContext struct {
	Features    map[string]any `json:"features"`
	UsageLimits map[string]any `json:"usageLimits"`
}

func newContext() *Context {
	return &Context{
		Pricing: PricingContext{
			Features:    make(map[string]any),
			UsageLimits: make(map[string]any),
		},
		Subscription: make(map[string]float64),
		Evaluation:   make(map[string]string),
	}
}

// Key returns the namespaced key of name within service.
func Key(service, name string) string {
	return strings.ToLower(service) + Separator + name
}

// References in expressions, with single or double quotes:
//
//	pricingContext['features']['x']
//	pricingContext['usageLimits']['x']
//	subscriptionContext['x']
var (
	pricingRef      = regexp.MustCompile(`pricingContext\[\s*['"](features|usageLimits)['"]\s*\]\[\s*['"]([^'"\]]+)['"]\s*\]`)
	subscriptionRef = regexp.MustCompile(`subscriptionContext\[\s*['"]([^'"\]]+)['"]\s*\]`)
)

// RewriteExpression rewrites every context reference in expr to the
// namespaced key of service.
func RewriteExpression(service, expr string) string {
	prefix := Key(service, "")
	expr = pricingRef.ReplaceAllString(expr, "pricingContext['${1}']['"+escapeReplacement(prefix)+"${2}']")
	return subscriptionRef.ReplaceAllString(expr, "subscriptionContext['"+escapeReplacement(prefix)+"${1}']")
}

func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
