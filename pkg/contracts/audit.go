package contracts

import "time"

// EventNegotiationDecision is the event type stamped on every negotiation
// audit record.
const EventNegotiationDecision = "negotiation_decision"

// AuditRecord is the immutable decision record emitted once per
// negotiation invocation, whichever branch the negotiation took.
type AuditRecord struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`

	ScenarioID    string `json:"scenario_id"`
	UserID        string `json:"user_id"`
	CorrelationID string `json:"correlation_id"`

	// SelectedStrategies summarizes the chosen three; empty when the
	// negotiation escalated.
	SelectedStrategies    []StrategySummary     `json:"selected_strategies"`
	NegotiationParameters NegotiationParameters `json:"negotiation_parameters"`

	ConflictEscalated bool   `json:"conflict_escalated"`
	ConflictReason    string `json:"conflict_reason,omitempty"`

	// Rationale is a non-empty human-readable account of why the
	// decision came out the way it did.
	Rationale string `json:"rationale"`
}
