package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pricingkit/pkg/catalog"
	"github.com/dmitrymomot/pricingkit/pkg/contract"
	"github.com/dmitrymomot/pricingkit/pkg/logger"
	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

const zoomYAML = `saasName: Zoom
version: "%s"
currency: USD
createdAt: "%s"
features:
  meetings:
    valueType: BOOLEAN
    defaultValue: true
    expression: pricingContext['features']['meetings']
  webinars:
    valueType: BOOLEAN
    defaultValue: false
usageLimits:
  maxMeetings:
    valueType: NUMERIC
    defaultValue: 10
    type: RENEWABLE
    period:
      value: 1
      unit: MONTH
plans:
  BASIC: {}
  PRO:
    usageLimits:
      maxMeetings:
        value: 100
addOns:
  webinars:
    availableFor: [PRO]
    features:
      webinars:
        value: true
`

type harness struct {
	app       *app
	contracts contract.Store
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	dir       string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWithHealth(t, nil)
}

func newHarnessWithHealth(t *testing.T, health func(context.Context) error) *harness {
	t.Helper()

	h := &harness{
		contracts: contract.NewInMemStore(),
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		dir:       t.TempDir(),
	}
	a, err := newApp(context.Background(), stores{
		services:  catalog.NewInMemStore(),
		documents: pricing.NewInMemStore(),
		contracts: h.contracts,
		health:    health,
	}, pricing.NewHTTPFetcher(pricing.FetcherConfig{}), logger.Discard(), h.stdout, h.stderr)
	require.NoError(t, err)
	h.app = a
	return h
}

func (h *harness) run(role string, args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return h.app.run(context.Background(), role, args)
}

func (h *harness) pricingFile(t *testing.T, version, createdAt string) string {
	t.Helper()
	path := filepath.Join(h.dir, "zoom-"+version+".yml")
	body := []byte(fmt.Sprintf(zoomYAML, version, createdAt))
	require.NoError(t, os.WriteFile(path, body, 0o600))
	return path
}

func TestCatalogctlLifecycle(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	ctx := context.Background()

	require.Equal(t, exitOK, h.run("admin", "add-pricing", "-service", "Zoom", "-file", h.pricingFile(t, "1.0", "2024-01-01")), h.stderr.String())
	require.Equal(t, exitOK, h.run("admin", "add-pricing", "-service", "zoom", "-file", h.pricingFile(t, "2.0", "2025-01-01")), h.stderr.String())

	created, err := h.app.contracts.Create(ctx, contract.CreateRequest{
		UserContact:        contract.UserContact{UserID: "u1", Username: "jane"},
		ContractedServices: map[string]string{"Zoom": "1.0"},
		SubscriptionPlans:  map[string]string{"Zoom": "BASIC"},
	})
	require.NoError(t, err)

	// Archiving without a fallback is rejected before anything changes.
	assert.Equal(t, exitFailure, h.run("manager", "archive", "-service", "zoom", "-version", "1.0"))
	assert.Contains(t, h.stderr.String(), "missing_fallback")

	require.Equal(t, exitOK, h.run("manager", "archive", "-service", "zoom", "-version", "1.0", "-plan", "PRO", "-addon", "webinars=1"), h.stderr.String())
	var result catalog.NovationResult
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &result))
	assert.Equal(t, 1, result.Novated)

	got, err := h.contracts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "2.0", got.ContractedServices["zoom"])
	assert.Equal(t, "PRO", got.SubscriptionPlans["zoom"])
	assert.Len(t, got.History, 1)

	// Managers may not delete.
	assert.Equal(t, exitFailure, h.run("manager", "delete-pricing", "-service", "zoom", "-version", "1.0"))
	assert.Contains(t, h.stderr.String(), "forbidden")

	require.Equal(t, exitOK, h.run("admin", "delete-pricing", "-service", "zoom", "-version", "1.0"), h.stderr.String())
	var svc catalog.Service
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &svc))
	assert.Empty(t, svc.ArchivedPricings)
	assert.Contains(t, svc.ActivePricings, "2.0")

	require.Equal(t, exitOK, h.run("evaluator", "evaluate", "-user", "u1"), h.stderr.String())
	var ec struct {
		Pricing struct {
			Features    map[string]any `json:"features"`
			UsageLimits map[string]any `json:"usageLimits"`
		} `json:"pricingContext"`
		Evaluation map[string]string `json:"evaluationContext"`
	}
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &ec))
	assert.Equal(t, true, ec.Pricing.Features["zoom-webinars"])
	assert.Equal(t, float64(100), ec.Pricing.UsageLimits["zoom-maxMeetings"])
	assert.Equal(t, "pricingContext['features']['zoom-meetings']", ec.Evaluation["zoom-meetings"])

	require.Equal(t, exitOK, h.run("manager", "consume", "-contract", created.ID, "-service", "Zoom", "-limit", "maxMeetings", "-amount", "3"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), `"consumed": 3`)

	require.Equal(t, exitOK, h.run("manager", "reset-usage", "-contract", created.ID), h.stderr.String())
	assert.JSONEq(t, `{"renewed":0}`, h.stdout.String())

	require.Equal(t, exitOK, h.run("admin", "disable", "-service", "zoom"), h.stderr.String())
	got, err = h.contracts.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, got.Disabled)

	require.Equal(t, exitOK, h.run("evaluator", "list", "-all"), h.stderr.String())
	assert.Contains(t, h.stdout.String(), `"disabled": true`)
}

func TestCatalogctlUsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   string
		args   []string
		code   int
		stderr string
	}{
		{"no command", "admin", nil, exitUsage, "usage: catalogctl"},
		{"unknown command", "admin", []string{"publish"}, exitUsage, `unknown command "publish"`},
		{"missing flags", "admin", []string{"activate", "-service", "zoom"}, exitUsage, "-version"},
		{"both sources", "admin", []string{"add-pricing", "-service", "zoom", "-file", "a.yml", "-url", "http://x"}, exitUsage, "-file"},
		{"bad add-on", "admin", []string{"archive", "-service", "zoom", "-version", "1.0", "-addon", "webinars=x"}, exitUsage, "invalid add-on quantity"},
		{"unknown role", "owner", []string{"list"}, exitFailure, "forbidden"},
		{"role flag overrides default", "admin", []string{"-role", "evaluator", "disable", "-service", "zoom"}, exitFailure, "forbidden"},
		{"missing service", "admin", []string{"disable", "-service", "zoom"}, exitFailure, "not_found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			assert.Equal(t, tt.code, h.run(tt.role, tt.args...))
			assert.Contains(t, h.stderr.String(), tt.stderr)
		})
	}
}

func TestCatalogctlHealth(t *testing.T) {
	t.Parallel()

	t.Run("reachable", func(t *testing.T) {
		t.Parallel()
		var calls int
		h := newHarnessWithHealth(t, func(context.Context) error {
			calls++
			return nil
		})
		require.Equal(t, exitOK, h.run("evaluator", "health"), h.stderr.String())
		assert.JSONEq(t, `{"status":"ok"}`, h.stdout.String())
		assert.Equal(t, 1, calls)
	})

	t.Run("unreachable", func(t *testing.T) {
		t.Parallel()
		h := newHarnessWithHealth(t, func(context.Context) error {
			return errors.New("server selection timeout")
		})
		assert.Equal(t, exitFailure, h.run("evaluator", "health"))
		assert.Contains(t, h.stderr.String(), "internal")
		assert.Contains(t, h.stderr.String(), "server selection timeout")
	})
}

func TestAddOnFlag(t *testing.T) {
	t.Parallel()

	f := addOnFlag{}
	require.NoError(t, f.Set("webinars=2"))
	require.NoError(t, f.Set(" recording "))
	assert.Equal(t, addOnFlag{"webinars": 2, "recording": 1}, f)
	assert.Error(t, f.Set("=3"))
	assert.Error(t, f.Set("phone=two"))
}
