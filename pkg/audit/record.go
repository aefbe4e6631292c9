// Package audit emits and stores the immutable decision records of the
// negotiation engine. Records are append-only: each one is independent and
// never rewritten, so concurrent negotiations never contend on anything
// but the tail of the chain.
package audit

import (
	"fmt"
	"strings"
	"time"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// BuildDecisionRecord assembles the audit record for one negotiation
// outcome, including a human-readable rationale for either branch.
func BuildDecisionRecord(scenarioID, userID, correlationID string, result *contracts.NegotiationResult) contracts.AuditRecord {
	rec := contracts.AuditRecord{
		Timestamp:             time.Now().UTC(),
		EventType:             contracts.EventNegotiationDecision,
		ScenarioID:            scenarioID,
		UserID:                userID,
		CorrelationID:         correlationID,
		SelectedStrategies:    []contracts.StrategySummary{},
		NegotiationParameters: result.NegotiationParameters,
	}

	if esc := result.ConflictEscalation; esc != nil {
		rec.ConflictEscalated = true
		rec.ConflictReason = esc.Reason
		rec.Rationale = escalationRationale(scenarioID, result.NegotiationParameters, esc)
		return rec
	}

	for _, s := range result.BalancedStrategies {
		rec.SelectedStrategies = append(rec.SelectedStrategies, s.Summarize())
	}
	rec.Rationale = selectionRationale(scenarioID, result.NegotiationParameters, result.BalancedStrategies)
	return rec
}

func selectionRationale(scenarioID string, w contracts.NegotiationParameters, selected []contracts.MitigationStrategy) string {
	names := make([]string, 0, len(selected))
	for _, s := range selected {
		names = append(names, fmt.Sprintf("%s (%s)", s.Name, s.StrategyID))
	}
	return fmt.Sprintf(
		"Scenario %s: selected %s by weighted multi-objective score (cost %.2f, risk %.2f, sustainability %.2f). All hard thresholds were satisfiable by at least one candidate.",
		scenarioID, strings.Join(names, ", "),
		w.CostWeight, w.RiskWeight, w.SustainabilityWeight)
}

func escalationRationale(scenarioID string, w contracts.NegotiationParameters, esc *contracts.ConflictEscalation) string {
	objs := make([]string, 0, len(esc.ConflictingObjectives))
	for _, o := range esc.ConflictingObjectives {
		objs = append(objs, string(o))
	}
	return fmt.Sprintf(
		"Scenario %s: escalated instead of selecting strategies. Conflicting objectives: %s. Weights in effect: cost %.2f, risk %.2f, sustainability %.2f. %s",
		scenarioID, strings.Join(objs, ", "),
		w.CostWeight, w.RiskWeight, w.SustainabilityWeight, esc.Explanation)
}
