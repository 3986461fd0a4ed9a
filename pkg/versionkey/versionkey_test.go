package versionkey_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/pricingkit/pkg/versionkey"
)

func TestEscape(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1_0_3", versionkey.Escape("1.0.3"))
	assert.Equal(t, "2024", versionkey.Escape("2024"))
	assert.Equal(t, "", versionkey.Escape(""))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	versions := []string{"1.0", "2.0.1", "v3", "2024.10.17", "latest", "..."}
	for _, v := range versions {
		assert.Equal(t, v, versionkey.Unescape(versionkey.Escape(v)), v)
	}
}

func TestRoundTrip_UnderscoreIsAmbiguous(t *testing.T) {
	t.Parallel()

	// Known limitation: underscores are restored as periods.
	assert.Equal(t, "1.0", versionkey.Unescape(versionkey.Escape("1_0")))
}

func TestKeysAndValues(t *testing.T) {
	t.Parallel()

	m := map[string]int{"1.0": 1, "2.0": 2}
	escaped := versionkey.EscapeKeys(m)
	assert.Equal(t, map[string]int{"1_0": 1, "2_0": 2}, escaped)
	assert.Equal(t, m, versionkey.UnescapeKeys(escaped))

	contracted := map[string]string{"zoom": "1.2", "slack": "3"}
	stored := versionkey.EscapeValues(contracted)
	assert.Equal(t, map[string]string{"zoom": "1_2", "slack": "3"}, stored)
	assert.Equal(t, contracted, versionkey.UnescapeValues(stored))

	assert.Nil(t, versionkey.EscapeKeys[int](nil))
	assert.Nil(t, versionkey.UnescapeValues(nil))
}
