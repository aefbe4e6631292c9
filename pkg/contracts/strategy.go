package contracts

// MitigationStrategy is one candidate mitigation action with quantified
// attributes. Candidates are immutable once generated; the engine ranks and
// filters them, never rewrites them.
type MitigationStrategy struct {
	StrategyID  string `json:"strategy_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// CostImpact in currency units, never negative.
	CostImpact float64 `json:"cost_impact"`
	// RiskReduction in [0,1]; higher is better.
	RiskReduction float64 `json:"risk_reduction"`
	// SustainabilityImpact in kgCO2-equivalent; lower is better.
	SustainabilityImpact float64 `json:"sustainability_impact"`
	// ImplementationTime in hours.
	ImplementationTime float64 `json:"implementation_time"`

	// Tradeoffs is an ordered, non-empty list of human-readable caveats.
	Tradeoffs []string `json:"tradeoffs"`
}

// StrategySummary is the compact form of a strategy recorded in audit
// records and rationale text.
type StrategySummary struct {
	StrategyID           string  `json:"strategy_id"`
	Name                 string  `json:"name"`
	CostImpact           float64 `json:"cost_impact"`
	RiskReduction        float64 `json:"risk_reduction"`
	SustainabilityImpact float64 `json:"sustainability_impact"`
}

// Summarize reduces a strategy to its audit summary.
func (s MitigationStrategy) Summarize() StrategySummary {
	return StrategySummary{
		StrategyID:           s.StrategyID,
		Name:                 s.Name,
		CostImpact:           s.CostImpact,
		RiskReduction:        s.RiskReduction,
		SustainabilityImpact: s.SustainabilityImpact,
	}
}

// UserPreferences carries the stakeholder's soft priorities and hard
// thresholds. Absent threshold pointers mean "no constraint"; priority
// flags are informative weights, not mutually exclusive.
type UserPreferences struct {
	PrioritizeCost           bool `json:"prioritize_cost,omitempty"`
	PrioritizeRisk           bool `json:"prioritize_risk,omitempty"`
	PrioritizeSustainability bool `json:"prioritize_sustainability,omitempty"`

	MaxCostImpact           *float64 `json:"max_cost_impact,omitempty"`
	MinRiskReduction        *float64 `json:"min_risk_reduction,omitempty"`
	MaxSustainabilityImpact *float64 `json:"max_sustainability_impact,omitempty"`
}

// HasThresholds reports whether any hard threshold is present.
func (p UserPreferences) HasThresholds() bool {
	return p.MaxCostImpact != nil || p.MinRiskReduction != nil || p.MaxSustainabilityImpact != nil
}
