package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/observability"
)

func TestNew_DisabledProviderIsNoOp(t *testing.T) {
	p, err := observability.New(context.Background(), &observability.Config{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, p)

	// Instrument must pass requests straight through when disabled.
	called := false
	h := p.Instrument("negotiate", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/negotiate", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := observability.DefaultConfig()
	assert.Equal(t, "omnitrack-resilience-engine", cfg.ServiceName)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.True(t, cfg.Enabled)
	assert.InDelta(t, 1.0, cfg.SampleRate, 1e-9)
}
