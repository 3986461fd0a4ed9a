package novation_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/errkind"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/novation"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
	"github.com/dmitrymomot/pricingkit/pkg/subscription"
	"github.com/dmitrymomot/pricingkit/pkg/usage"
)

var (
	now     = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)
	started = now.AddDate(0, 0, -10)
)

// failingStore fails BulkUpdate calls whose disable flag matches failOn.
type failingStore struct {
	contract.Store
	failOn bool
	err    error
}

func (s *failingStore) BulkUpdate(ctx context.Context, contracts []*contract.Contract, disable bool) error {
	if disable == s.failOn {
		return s.err
	}
	return s.Store.BulkUpdate(ctx, contracts, disable)
}

func zoom(version string, createdAt time.Time, limits map[string]pricing.UsageLimit) *pricing.Document {
	return &pricing.Document{
		ID:        "zoom-" + version,
		SaaSName:  "Zoom",
		Version:   version,
		CreatedAt: createdAt,
		Features: map[string]pricing.Feature{
			"meetings": {Name: "meetings", ValueType: pricing.ValueTypeBoolean},
		},
		UsageLimits: limits,
		Plans: map[string]pricing.Plan{
			"BASIC": {Name: "BASIC"},
			"PRO":   {Name: "PRO"},
		},
		AddOns: map[string]pricing.AddOn{
			"extraSeats": {Name: "extraSeats", AvailableFor: []string{"PRO"}},
		},
	}
}

var renewableMeetings = map[string]pricing.UsageLimit{
	"maxMeetings": {
		Name:   "maxMeetings",
		Type:   pricing.UsageLimitRenewable,
		Period: &pricing.Period{Value: 1, Unit: pricing.UnitMonth},
	},
}

func newContract(userID string, bindings map[string]string) *contract.Contract {
	c := &contract.Contract{
		ID:            "c-" + userID,
		UserContact:   contract.UserContact{UserID: userID},
		BillingPeriod: contract.BillingPeriod{StartDate: started, EndDate: started.AddDate(0, 0, 15), AutoRenew: true, RenewalDays: 15},
	}
	for service, version := range bindings {
		c.Bind(service, version, subscription.Selection{Plan: "BASIC"})
		c.SetUsageLevels(service, usage.Levels{"old": {Consumed: 9}}, true)
	}
	return c
}

func newEngine(store contract.Store, docs pricing.DocumentStore, opts ...pricing.ResolverOption) *novation.Engine {
	return novation.New(store, pricing.NewResolver(docs, opts...),
		novation.WithClock(func() time.Time { return now }),
		novation.WithLogger(logger.Discard()),
	)
}

// archived returns Zoom after archiving 1.0, with 2.0 and 1.5 active.
func archived() *catalog.Service {
	return &catalog.Service{
		Name: "Zoom",
		ActivePricings: map[string]pricing.Locator{
			"1.5": pricing.LocalLocator("zoom-1.5"),
			"2.0": pricing.LocalLocator("zoom-2.0"),
		},
		ArchivedPricings: map[string]pricing.Locator{
			"1.0": pricing.LocalLocator("zoom-1.0"),
		},
	}
}

func TestEngine_NovatePricing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	docs := pricing.NewInMemStore(
		zoom("1.0", now.AddDate(0, -2, 0), nil),
		zoom("1.5", now.AddDate(0, -1, 0), nil),
		zoom("2.0", now.AddDate(0, -1, 0), renewableMeetings),
	)

	t.Run("rebinds contracts to latest pricing", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(
			newContract("a", map[string]string{"zoom": "1.0", "slack": "1.0"}),
			newContract("b", map[string]string{"zoom": "1.0"}),
			newContract("c", map[string]string{"zoom": "1.5"}),
		)
		engine := newEngine(store, docs)

		res, err := engine.NovatePricing(ctx, catalog.PricingNovation{
			Service:  archived(),
			Version:  "1.0",
			Fallback: subscription.Selection{Plan: "PRO", AddOns: map[string]int{"extraSeats": 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, catalog.NovationResult{Novated: 2}, res)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		// 1.5 and 2.0 share createdAt; the greater version wins.
		assert.Equal(t, "2.0", a.ContractedServices["zoom"])
		assert.Equal(t, "1.0", a.ContractedServices["slack"])
		assert.Equal(t, "PRO", a.SubscriptionPlans["zoom"])
		assert.Equal(t, map[string]int{"extraSeats": 1}, a.SubscriptionAddOns["zoom"])
		assert.Equal(t, "BASIC", a.SubscriptionPlans["slack"])

		require.Len(t, a.History, 1)
		assert.Equal(t, started, a.History[0].StartDate)
		assert.Equal(t, now, a.History[0].EndDate)
		assert.Equal(t, "1.0", a.History[0].ContractedServices["zoom"])
		assert.Equal(t, started, a.BillingPeriod.StartDate)

		require.Contains(t, a.UsageLevels, "zoom")
		assert.NotContains(t, a.UsageLevels["zoom"], "old")
		require.NotNil(t, a.UsageLevels["zoom"]["maxMeetings"].ResetTimestamp)
		assert.Equal(t, now.AddDate(0, 1, 0), *a.UsageLevels["zoom"]["maxMeetings"].ResetTimestamp)
		assert.Contains(t, a.UsageLevels, "slack")

		latest, err := docs.Get(ctx, "zoom-2.0")
		require.NoError(t, err)
		assert.NoError(t, subscription.Validate(a.Selection("zoom"), latest))

		untouched, err := store.Get(ctx, "c-c")
		require.NoError(t, err)
		assert.Equal(t, "1.5", untouched.ContractedServices["zoom"])
		assert.Empty(t, untouched.History)
	})

	t.Run("drops usage bucket when pricing tracks nothing", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(newContract("a", map[string]string{"zoom": "1.0"}))
		svc := archived()
		delete(svc.ActivePricings, "2.0")

		_, err := newEngine(store, docs).NovatePricing(ctx, catalog.PricingNovation{
			Service: svc, Version: "1.0", Fallback: subscription.Selection{Plan: "BASIC"},
		})
		require.NoError(t, err)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.Equal(t, "1.5", a.ContractedServices["zoom"])
		assert.NotContains(t, a.UsageLevels, "zoom")
	})

	t.Run("no affected contracts", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(newContract("c", map[string]string{"zoom": "1.5"}))
		res, err := newEngine(store, docs).NovatePricing(ctx, catalog.PricingNovation{
			Service: archived(), Version: "1.0", Fallback: subscription.Selection{Plan: "PRO"},
		})
		require.NoError(t, err)
		assert.Zero(t, res)
	})

	t.Run("invalid fallback aborts everything", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(
			newContract("a", map[string]string{"zoom": "1.0"}),
			newContract("b", map[string]string{"zoom": "1.0"}),
		)
		_, err := newEngine(store, docs).NovatePricing(ctx, catalog.PricingNovation{
			Service: archived(), Version: "1.0", Fallback: subscription.Selection{Plan: "ENTERPRISE"},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, novation.ErrInvalidContracts)
		assert.ErrorIs(t, err, subscription.ErrUnknownPlan)
		assert.ErrorIs(t, err, errkind.ErrValidation)

		var verr *novation.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.ElementsMatch(t, []string{"c-a", "c-b"}, verr.ContractIDs)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.Equal(t, "1.0", a.ContractedServices["zoom"])
		assert.Empty(t, a.History)
	})

	t.Run("bulk write failure", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("connection reset")
		store := &failingStore{
			Store:  contract.NewInMemStore(newContract("a", map[string]string{"zoom": "1.0"})),
			failOn: false,
			err:    boom,
		}
		_, err := newEngine(store, docs).NovatePricing(ctx, catalog.PricingNovation{
			Service: archived(), Version: "1.0", Fallback: subscription.Selection{Plan: "PRO"},
		})
		assert.ErrorIs(t, err, novation.ErrNovationFailed)
		assert.ErrorIs(t, err, errkind.ErrUpstream)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("remote fetch failure aborts before writing", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)

		store := contract.NewInMemStore(newContract("a", map[string]string{"zoom": "1.0"}))
		svc := archived()
		svc.ActivePricings["3.0"] = pricing.RemoteLocator(srv.URL)

		engine := newEngine(store, docs,
			pricing.WithFetcher(pricing.NewHTTPFetcherWithClient(srv.Client(), pricing.FetcherConfig{})),
			pricing.WithParser(pricing.NewYAMLParser()),
		)
		_, err := engine.NovatePricing(ctx, catalog.PricingNovation{
			Service: svc, Version: "1.0", Fallback: subscription.Selection{Plan: "PRO"},
		})
		assert.ErrorIs(t, err, pricing.ErrFetchFailed)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.Equal(t, "1.0", a.ContractedServices["zoom"])
	})

	t.Run("missing service", func(t *testing.T) {
		t.Parallel()

		_, err := newEngine(contract.NewInMemStore(), docs).NovatePricing(ctx, catalog.PricingNovation{})
		assert.ErrorIs(t, err, novation.ErrMissingService)
	})
}

func TestEngine_RemoveService(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	docs := pricing.NewInMemStore()

	t.Run("only service disables contract", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(newContract("a", map[string]string{"zoom": "1.0"}))
		res, err := newEngine(store, docs).RemoveService(ctx, "Zoom")
		require.NoError(t, err)
		assert.Equal(t, catalog.NovationResult{Disabled: 1}, res)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.True(t, a.Disabled)
		assert.Empty(t, a.ContractedServices)
		assert.NotNil(t, a.UsageLevels)
		assert.Empty(t, a.UsageLevels)
		assert.Equal(t, contract.BillingPeriod{StartDate: now, EndDate: now}, a.BillingPeriod)
		require.Len(t, a.History, 1)
		assert.Equal(t, "1.0", a.History[0].ContractedServices["zoom"])
	})

	t.Run("one of several leaves the rest untouched", func(t *testing.T) {
		t.Parallel()

		before := newContract("a", map[string]string{"zoom": "1.0", "slack": "2.0"})
		store := contract.NewInMemStore(before)

		res, err := newEngine(store, docs).RemoveService(ctx, "zoom")
		require.NoError(t, err)
		assert.Equal(t, catalog.NovationResult{Novated: 1}, res)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.False(t, a.Disabled)
		assert.Equal(t, map[string]string{"slack": "2.0"}, a.ContractedServices)
		assert.Equal(t, map[string]string{"slack": "BASIC"}, a.SubscriptionPlans)
		assert.NotContains(t, a.UsageLevels, "zoom")
		assert.Equal(t, before.UsageLevels["slack"], a.UsageLevels["slack"])
		require.Len(t, a.History, 1)
		assert.Equal(t, started, a.History[0].StartDate)
		assert.Equal(t, now, a.History[0].EndDate)
		assert.Equal(t, contract.BillingPeriod{
			StartDate:   now,
			EndDate:     now.AddDate(0, 0, 15),
			AutoRenew:   true,
			RenewalDays: 15,
		}, a.BillingPeriod)
	})

	t.Run("unaffected contracts are skipped", func(t *testing.T) {
		t.Parallel()

		store := contract.NewInMemStore(newContract("a", map[string]string{"slack": "2.0"}))
		res, err := newEngine(store, docs).RemoveService(ctx, "zoom")
		require.NoError(t, err)
		assert.Zero(t, res)

		a, err := store.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.Empty(t, a.History)
	})

	t.Run("partial failure attempts both writes", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("write concern error")
		inner := contract.NewInMemStore(
			newContract("a", map[string]string{"zoom": "1.0", "slack": "2.0"}),
			newContract("b", map[string]string{"zoom": "1.0"}),
		)
		store := &failingStore{Store: inner, failOn: true, err: boom}

		res, err := newEngine(store, docs).RemoveService(ctx, "zoom")
		assert.ErrorIs(t, err, novation.ErrPartialNovation)
		assert.ErrorIs(t, err, errkind.ErrPartialFailure)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, catalog.NovationResult{Novated: 1, Disabled: 1}, res)

		a, err := inner.Get(ctx, "c-a")
		require.NoError(t, err)
		assert.NotContains(t, a.ContractedServices, "zoom")

		b, err := inner.Get(ctx, "c-b")
		require.NoError(t, err)
		assert.False(t, b.Disabled)
		assert.Contains(t, b.ContractedServices, "zoom")
	})
}

func TestCatalogArchiveWithEngine(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	docs := pricing.NewInMemStore()
	resolver := pricing.NewResolver(docs)
	store := contract.NewInMemStore()
	engine := novation.New(store, resolver, novation.WithLogger(logger.Discard()))
	cat := catalog.New(catalog.NewInMemStore(), docs, resolver,
		catalog.WithNovator(engine),
		catalog.WithLogger(logger.Discard()),
	)

	_, err := cat.Create(ctx, "Zoom",
		catalog.Source{Document: zoom("1.0", now.AddDate(0, -2, 0), nil)},
		catalog.Source{Document: zoom("2.0", now.AddDate(0, -1, 0), renewableMeetings)},
	)
	require.NoError(t, err)

	contracts := contract.NewService(store, cat, contract.WithLogger(logger.Discard()))
	c, err := contracts.Create(ctx, contract.CreateRequest{
		UserContact:        contract.UserContact{UserID: "u-1"},
		ContractedServices: map[string]string{"Zoom": "1.0"},
		SubscriptionPlans:  map[string]string{"Zoom": "BASIC"},
	})
	require.NoError(t, err)

	res, err := cat.ArchivePricing(ctx, "Zoom", "1.0", &subscription.Selection{Plan: "PRO"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Novated)

	got, err := contracts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.0", got.ContractedServices["zoom"])

	latest, err := cat.LatestPricing(ctx, "Zoom")
	require.NoError(t, err)
	assert.NoError(t, subscription.ValidateContract(got.Selections(), map[string]*pricing.Document{"zoom": latest}))
}
