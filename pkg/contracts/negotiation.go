package contracts

// Objective identifies one of the three negotiable objectives.
type Objective string

const (
	ObjectiveCost           Objective = "cost"
	ObjectiveRisk           Objective = "risk"
	ObjectiveSustainability Objective = "sustainability"
)

// NegotiationParameters are the resolved objective weights used for
// scoring. The three weights always sum to 1.
type NegotiationParameters struct {
	CostWeight           float64 `json:"cost_weight"`
	RiskWeight           float64 `json:"risk_weight"`
	SustainabilityWeight float64 `json:"sustainability_weight"`
}

// TradeoffPoint is one strategy projected onto a two-objective plane.
type TradeoffPoint struct {
	StrategyID string  `json:"strategy_id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// TradeoffVisualization is a pairwise projection of the full candidate
// pool, so rejected options stay visible for comparison.
type TradeoffVisualization struct {
	Name   string          `json:"name"` // e.g. "cost_vs_risk"
	XAxis  string          `json:"x_axis"`
	YAxis  string          `json:"y_axis"`
	Points []TradeoffPoint `json:"points"`
}

// ConflictEscalation is the designed outcome when no candidate can satisfy
// all hard thresholds jointly. It is a success-path value, not an error.
type ConflictEscalation struct {
	Reason                string      `json:"reason"`
	ConflictingObjectives []Objective `json:"conflicting_objectives"`
	Explanation           string      `json:"explanation"`
	// RequiresUserInput is always true: the engine cannot relax a
	// stakeholder threshold on its own.
	RequiresUserInput bool `json:"requires_user_input"`
}

// NegotiationResult is the outcome of one negotiation invocation. Exactly
// one of BalancedStrategies / ConflictEscalation is populated.
type NegotiationResult struct {
	// BalancedStrategies holds exactly three strategies, unique by id,
	// absent when the negotiation escalated.
	BalancedStrategies []MitigationStrategy `json:"balanced_strategies,omitempty"`

	TradeoffVisualizations []TradeoffVisualization `json:"tradeoff_visualizations,omitempty"`
	NegotiationParameters  NegotiationParameters   `json:"negotiation_parameters"`

	ConflictEscalation *ConflictEscalation `json:"conflict_escalation,omitempty"`
}

// Escalated reports whether the negotiation ended in a conflict escalation.
func (r NegotiationResult) Escalated() bool {
	return r.ConflictEscalation != nil
}
