package logger_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pricingkit/pkg/logger"
)

func TestGroup(t *testing.T) {
	attr := logger.Group("novation", logger.Service("zoom"), logger.Count("novated", 2))
	require.Equal(t, "novation", attr.Key)
	require.Equal(t, slog.KindGroup, attr.Value.Kind())
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, "saas_service", g[0].Key)
	assert.Equal(t, "novated", g[1].Key)
}

func TestErrors(t *testing.T) {
	err1 := errors.New("first")
	err2 := errors.New("second")

	attr := logger.Errors(err1, nil, err2)
	require.Equal(t, "errors", attr.Key)
	g := attr.Value.Group()
	require.Len(t, g, 2)
	assert.Equal(t, err1, g[0].Value.Any())
	assert.Equal(t, err2, g[1].Value.Any())

	assert.True(t, logger.Errors(nil).Equal(slog.Attr{}))
}

func TestError(t *testing.T) {
	err := errors.New("boom")
	attr := logger.Error(err)
	require.Equal(t, "error", attr.Key)
	assert.Equal(t, err, attr.Value.Any())

	assert.True(t, logger.Error(nil).Equal(slog.Attr{}))
}

func TestDomainAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		want any
	}{
		{logger.Service("Zoom"), "saas_service", "Zoom"},
		{logger.Version("2.0"), "pricing_version", "2.0"},
		{logger.ContractID("c-1"), "contract_id", "c-1"},
		{logger.UserID("u-1"), "user_id", "u-1"},
		{logger.Role("admin"), "role", "admin"},
		{logger.Operation("archive"), "operation", "archive"},
		{logger.ErrorKey("catalog.errors.service_not_found"), "error_key", "catalog.errors.service_not_found"},
		{logger.Count("disabled", 3), "disabled", int64(3)},
		{logger.Duration(time.Second), "duration", time.Second},
		{logger.Component("novation"), "component", "novation"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.want, tt.attr.Value.Any())
		})
	}

	assert.True(t, logger.UserID("").Equal(slog.Attr{}))
	assert.True(t, logger.Role(nil).Equal(slog.Attr{}))
}
