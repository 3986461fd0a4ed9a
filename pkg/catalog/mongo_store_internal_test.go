package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/pricingkit/pkg/pricing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := &Service{
		ID:               "s-1",
		Name:             "Zoom",
		FoldedName:       FoldName("Zoom"),
		ActivePricings:   map[string]pricing.Locator{"1.2.3": pricing.LocalLocator("doc-1")},
		ArchivedPricings: map[string]pricing.Locator{"1.0": {URL: "https://example.com/zoom.yaml"}},
	}

	enc := encode(svc)
	assert.Contains(t, enc.ActivePricings, "1_2_3")
	assert.Contains(t, enc.ArchivedPricings, "1_0")
	assert.Contains(t, svc.ActivePricings, "1.2.3", "encode must not touch the input")

	raw, err := bson.Marshal(enc)
	require.NoError(t, err)

	var stored Service
	require.NoError(t, bson.Unmarshal(raw, &stored))
	assert.Contains(t, stored.ActivePricings, "1_2_3")

	dec := decode(&stored)
	assert.Equal(t, pricing.LocalLocator("doc-1"), dec.ActivePricings["1.2.3"])
	assert.Equal(t, "https://example.com/zoom.yaml", dec.ArchivedPricings["1.0"].URL)
	assert.Equal(t, "zoom", dec.FoldedName)
}
