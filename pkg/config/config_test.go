package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/config"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/explain"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "AUDIT_DB_PATH", "REDIS_ADDR", "JWT_SECRET"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "audit.db", cfg.AuditDBPath)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "us-east-1", cfg.S3Region)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("AUDIT_POSTGRES_URL", "postgres://audit")
	t.Setenv("AUDIT_S3_BUCKET", "audit-archive")

	cfg := config.Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "postgres://audit", cfg.AuditPostgresURL)
	assert.Equal(t, "audit-archive", cfg.S3Bucket)
}

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfile_OverridesAndDefaults(t *testing.T) {
	path := writeProfile(t, `
name: aggressive-cost
priority_boost: 5.0
uncertainty_bands:
  - metric: cost_impact
    relative: 0.10
    confidence: 0.95
`)

	p, err := config.LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "aggressive-cost", p.Name)
	assert.InDelta(t, 5.0, p.PriorityBoost, 1e-9)
	// Unset fields keep compiled-in defaults.
	assert.InDelta(t, explain.BaselineConfidence, p.BaselineConfidence, 1e-9)
	assert.Equal(t, 10000, p.ReasoningTimeoutMs)

	require.Len(t, p.UncertaintyBands, 1)
	assert.Equal(t, "cost_impact", p.UncertaintyBands[0].Metric)
	assert.InDelta(t, 0.10, p.UncertaintyBands[0].Relative, 1e-9)
}

func TestLoadProfile_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"negative boost", "priority_boost: -1"},
		{"baseline above one", "baseline_confidence: 1.5"},
		{"malformed yaml", "priority_boost: [not a number"},
		{"band without metric", "uncertainty_bands:\n- relative: 0.2\n  confidence: 0.9"},
		{"band negative relative", "uncertainty_bands:\n- metric: cost_impact\n  relative: -0.2\n  confidence: 0.9"},
		{"band zero confidence", "uncertainty_bands:\n- metric: cost_impact\n  relative: 0.2\n  confidence: 0"},
		{"band confidence above one", "uncertainty_bands:\n- metric: cost_impact\n  relative: 0.2\n  confidence: 1.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := config.LoadProfile(writeProfile(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := config.LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultProfile(t *testing.T) {
	p := config.DefaultProfile()
	assert.Equal(t, "default", p.Name)
	assert.InDelta(t, 3.0, p.PriorityBoost, 1e-9)
	assert.Len(t, p.UncertaintyBands, 4)
}
