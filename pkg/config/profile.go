package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/explain"
)

// EngineProfile holds the tunables of the negotiation and explainability
// engines. Compiled-in defaults apply when no profile file is configured.
type EngineProfile struct {
	Name string `yaml:"name" json:"name"`

	// PriorityBoost multiplies an objective's weight per prioritize flag.
	PriorityBoost float64 `yaml:"priority_boost" json:"priority_boost"`

	// BaselineConfidence applies when no contribution carries confidence.
	BaselineConfidence float64 `yaml:"baseline_confidence" json:"baseline_confidence"`

	// ReasoningTimeoutMs bounds the single reasoning-service call.
	ReasoningTimeoutMs int `yaml:"reasoning_timeout_ms" json:"reasoning_timeout_ms"`

	// UncertaintyBands override the fixed per-metric bands.
	UncertaintyBands []explain.Band `yaml:"uncertainty_bands,omitempty" json:"uncertainty_bands,omitempty"`
}

// DefaultProfile returns the compiled-in tunables.
func DefaultProfile() *EngineProfile {
	return &EngineProfile{
		Name:               "default",
		PriorityBoost:      3.0,
		BaselineConfidence: explain.BaselineConfidence,
		ReasoningTimeoutMs: 10000,
		UncertaintyBands:   explain.DefaultBands,
	}
}

// LoadProfile reads a profile YAML, filling unset fields from defaults.
func LoadProfile(path string) (*EngineProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load profile %q: %w", path, err)
	}

	profile := DefaultProfile()
	if err := yaml.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("config: parse profile %q: %w", path, err)
	}

	if profile.PriorityBoost <= 0 {
		return nil, fmt.Errorf("config: profile %q: priority_boost must be positive", path)
	}
	if profile.BaselineConfidence < 0 || profile.BaselineConfidence > 1 {
		return nil, fmt.Errorf("config: profile %q: baseline_confidence outside [0,1]", path)
	}
	for _, b := range profile.UncertaintyBands {
		if b.Metric == "" {
			return nil, fmt.Errorf("config: profile %q: uncertainty band missing metric", path)
		}
		if b.Relative < 0 {
			return nil, fmt.Errorf("config: profile %q: band %s: relative must be non-negative", path, b.Metric)
		}
		if b.Confidence <= 0 || b.Confidence > 1 {
			return nil, fmt.Errorf("config: profile %q: band %s: confidence outside (0,1]", path, b.Metric)
		}
	}
	return profile, nil
}
