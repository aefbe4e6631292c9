package contracts

import (
	"encoding/json"
	"time"
)

// UncertaintyRange bounds an upstream agent's estimate.
type UncertaintyRange struct {
	Lower           float64 `json:"lower"`
	Upper           float64 `json:"upper"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// AgentContribution is one upstream agent's input to the pipeline. Data is
// an opaque payload the engine passes through without inspecting, so this
// engine stays decoupled from every upstream agent's schema.
type AgentContribution struct {
	AgentName        string            `json:"agent_name"`
	ContributionType string            `json:"contribution_type"`
	Data             json.RawMessage   `json:"data,omitempty"`
	Confidence       *float64          `json:"confidence,omitempty"`
	UncertaintyRange *UncertaintyRange `json:"uncertainty_range,omitempty"`
}

// NodeType classifies a decision-tree node.
type NodeType string

const (
	NodeDecision  NodeType = "decision"
	NodeOutcome   NodeType = "outcome"
	NodeCondition NodeType = "condition"
)

// DecisionNode is one node of the explanation tree.
type DecisionNode struct {
	NodeID           string   `json:"node_id"`
	Label            string   `json:"label"`
	Type             NodeType `json:"type"`
	AgentAttribution string   `json:"agent_attribution,omitempty"`
	Confidence       *float64 `json:"confidence,omitempty"`
}

// DecisionEdge connects two nodes; From and To must reference node ids
// present in the same tree.
type DecisionEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// DecisionTree is a fixed-shape explanation graph of pipeline stages,
// built fresh per explanation request and never persisted by this engine.
type DecisionTree struct {
	Nodes []DecisionNode `json:"nodes"`
	Edges []DecisionEdge `json:"edges"`
}

// AgentAttribution credits one agent for one part of the pipeline output.
type AgentAttribution struct {
	ComponentID string   `json:"component_id"`
	AgentName   string   `json:"agent_name"`
	Role        string   `json:"role,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// PredictionRange is one metric's point estimate with uncertainty bounds.
// Invariant: LowerBound <= PointEstimate <= UpperBound, 0 < ConfidenceLevel <= 1.
type PredictionRange struct {
	Metric          string  `json:"metric"`
	PointEstimate   float64 `json:"point_estimate"`
	LowerBound      float64 `json:"lower_bound"`
	UpperBound      float64 `json:"upper_bound"`
	ConfidenceLevel float64 `json:"confidence_level"`
}

// UncertaintyQuantification summarizes how much the pipeline's numbers can
// be trusted. Assumptions and LimitationsAndCaveats are never empty:
// downstream consumers rely on their presence, not their exact wording.
type UncertaintyQuantification struct {
	OverallConfidence     float64           `json:"overall_confidence"`
	PredictionRanges      []PredictionRange `json:"prediction_ranges,omitempty"`
	Assumptions           []string          `json:"assumptions"`
	LimitationsAndCaveats []string          `json:"limitations_and_caveats"`
}

// ExplanationMetadata describes how an explanation was produced.
type ExplanationMetadata struct {
	GeneratedAt time.Time `json:"generated_at"`
	// GenerationMethod distinguishes the reasoning-service path from the
	// deterministic fallback, e.g. "reasoning_service" vs "rule_based".
	GenerationMethod string `json:"generation_method"`
	// Completeness is the fraction of optional explanation components
	// present and non-trivial, in [0,1].
	Completeness float64 `json:"completeness"`
}

// ExplanationResponse is the full explanation of one pipeline run.
type ExplanationResponse struct {
	NaturalLanguageSummary string                     `json:"natural_language_summary,omitempty"`
	DecisionTree           *DecisionTree              `json:"decision_tree,omitempty"`
	AgentAttributions      []AgentAttribution         `json:"agent_attributions"`
	Uncertainty            *UncertaintyQuantification `json:"uncertainty_quantification,omitempty"`
	Metadata               ExplanationMetadata        `json:"metadata"`
}
