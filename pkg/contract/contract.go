package contract

import (
	"maps"
	"slices"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/pricingkit/pkg/subscription"
	"github.com/dmitrymomot/pricingkit/pkg/usage"
)

// DefaultRenewalDays is used when a billing period carries no renewal length.
const DefaultRenewalDays = 30

// ServiceKey normalizes a service name into the key used by every
// per-service map of a contract.
func ServiceKey(name string) string {
	// Casers keep state and cannot be shared between goroutines.
	return cases.Lower(language.Und).String(name)
}

// UserContact identifies the subscriber.
type UserContact struct {
	UserID    string `bson:"userId" json:"userId"`
	Username  string `bson:"username" json:"username"`
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Phone     string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// BillingPeriod is the current billing window of a contract.
type BillingPeriod struct {
	StartDate   time.Time `bson:"startDate" json:"startDate"`
	EndDate     time.Time `bson:"endDate" json:"endDate"`
	AutoRenew   bool      `bson:"autoRenew" json:"autoRenew"`
	RenewalDays int       `bson:"renewalDays" json:"renewalDays"`
}

// NewBillingPeriod starts a period at now lasting renewalDays (default 30).
func NewBillingPeriod(now time.Time, renewalDays int, autoRenew bool) BillingPeriod {
	if renewalDays <= 0 {
		renewalDays = DefaultRenewalDays
	}
	return BillingPeriod{
		StartDate:   now,
		EndDate:     now.AddDate(0, 0, renewalDays),
		AutoRenew:   autoRenew,
		RenewalDays: renewalDays,
	}
}

// HistoryEntry is a frozen snapshot of a previous subscription.
type HistoryEntry struct {
	StartDate          time.Time                 `bson:"startDate" json:"startDate"`
	EndDate            time.Time                 `bson:"endDate" json:"endDate"`
	ContractedServices map[string]string         `bson:"contractedServices" json:"contractedServices"`
	SubscriptionPlans  map[string]string         `bson:"subscriptionPlans,omitempty" json:"subscriptionPlans,omitempty"`
	SubscriptionAddOns map[string]map[string]int `bson:"subscriptionAddOns,omitempty" json:"subscriptionAddOns,omitempty"`
}

// Contract binds a user to specific pricing versions of one or more services.
// Every per-service map is keyed by ServiceKey.
type Contract struct {
	ID                 string                    `bson:"_id" json:"id"`
	UserContact        UserContact               `bson:"userContact" json:"userContact"`
	BillingPeriod      BillingPeriod             `bson:"billingPeriod" json:"billingPeriod"`
	UsageLevels        map[string]usage.Levels   `bson:"usageLevels" json:"usageLevels"`
	ContractedServices map[string]string         `bson:"contractedServices" json:"contractedServices"`
	SubscriptionPlans  map[string]string         `bson:"subscriptionPlans" json:"subscriptionPlans"`
	SubscriptionAddOns map[string]map[string]int `bson:"subscriptionAddOns" json:"subscriptionAddOns"`
	History            []HistoryEntry            `bson:"history" json:"history"`
	Disabled           bool                      `bson:"disabled" json:"disabled"`
	CreatedAt          time.Time                 `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time                 `bson:"updatedAt" json:"updatedAt"`
}

// Services returns the contracted service keys in sorted order.
func (c *Contract) Services() []string {
	return slices.Sorted(maps.Keys(c.ContractedServices))
}

// Version returns the contracted pricing version of service.
func (c *Contract) Version(service string) (string, bool) {
	v, ok := c.ContractedServices[ServiceKey(service)]
	return v, ok
}

// Selection returns the subscription of service.
func (c *Contract) Selection(service string) subscription.Selection {
	key := ServiceKey(service)
	return subscription.Selection{
		Plan:   c.SubscriptionPlans[key],
		AddOns: maps.Clone(c.SubscriptionAddOns[key]),
	}
}

// Selections returns the subscription of every contracted service.
func (c *Contract) Selections() map[string]subscription.Selection {
	out := make(map[string]subscription.Selection, len(c.ContractedServices))
	for key := range c.ContractedServices {
		out[key] = c.Selection(key)
	}
	return out
}

// Bind contracts service at version with sel, replacing any previous binding.
// Empty plans and add-on sets are not stored.
func (c *Contract) Bind(service, version string, sel subscription.Selection) {
	key := ServiceKey(service)
	if c.ContractedServices == nil {
		c.ContractedServices = make(map[string]string)
	}
	if c.SubscriptionPlans == nil {
		c.SubscriptionPlans = make(map[string]string)
	}
	if c.SubscriptionAddOns == nil {
		c.SubscriptionAddOns = make(map[string]map[string]int)
	}

	c.ContractedServices[key] = version
	if sel.Plan != "" {
		c.SubscriptionPlans[key] = sel.Plan
	} else {
		delete(c.SubscriptionPlans, key)
	}
	if len(sel.AddOns) > 0 {
		c.SubscriptionAddOns[key] = maps.Clone(sel.AddOns)
	} else {
		delete(c.SubscriptionAddOns, key)
	}
}

// Unbind removes service with its subscription and usage levels.
// Reports whether the service was contracted.
func (c *Contract) Unbind(service string) bool {
	key := ServiceKey(service)
	if _, ok := c.ContractedServices[key]; !ok {
		return false
	}
	delete(c.ContractedServices, key)
	delete(c.SubscriptionPlans, key)
	delete(c.SubscriptionAddOns, key)
	delete(c.UsageLevels, key)
	return true
}

// SetUsageLevels stores the levels of service, or drops its bucket when the
// pricing needs no tracking.
func (c *Contract) SetUsageLevels(service string, levels usage.Levels, tracked bool) {
	key := ServiceKey(service)
	if !tracked {
		delete(c.UsageLevels, key)
		return
	}
	if c.UsageLevels == nil {
		c.UsageLevels = make(map[string]usage.Levels)
	}
	c.UsageLevels[key] = levels
}

// Snapshot freezes the current subscription into a history entry ending at end.
func (c *Contract) Snapshot(end time.Time) HistoryEntry {
	return HistoryEntry{
		StartDate:          c.BillingPeriod.StartDate,
		EndDate:            end,
		ContractedServices: maps.Clone(c.ContractedServices),
		SubscriptionPlans:  maps.Clone(c.SubscriptionPlans),
		SubscriptionAddOns: cloneAddOns(c.SubscriptionAddOns),
	}
}

// Archive appends a snapshot of the current subscription to the history.
func (c *Contract) Archive(end time.Time) {
	c.History = append(c.History, c.Snapshot(end))
}

// Clone returns a deep copy.
func (c *Contract) Clone() *Contract {
	if c == nil {
		return nil
	}
	out := *c
	out.ContractedServices = maps.Clone(c.ContractedServices)
	out.SubscriptionPlans = maps.Clone(c.SubscriptionPlans)
	out.SubscriptionAddOns = cloneAddOns(c.SubscriptionAddOns)
	if c.UsageLevels != nil {
		out.UsageLevels = make(map[string]usage.Levels, len(c.UsageLevels))
		for k, l := range c.UsageLevels {
			out.UsageLevels[k] = l.Clone()
		}
	}
	if c.History != nil {
		out.History = make([]HistoryEntry, len(c.History))
		for i, h := range c.History {
			h.ContractedServices = maps.Clone(h.ContractedServices)
			h.SubscriptionPlans = maps.Clone(h.SubscriptionPlans)
			h.SubscriptionAddOns = cloneAddOns(h.SubscriptionAddOns)
			out.History[i] = h
		}
	}
	return &out
}

func cloneAddOns(m map[string]map[string]int) map[string]map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]map[string]int, len(m))
	for k, v := range m {
		out[k] = maps.Clone(v)
	}
	return out
}
