package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

var sampleWeights = contracts.NegotiationParameters{
	CostWeight: 0.6, RiskWeight: 0.2, SustainabilityWeight: 0.2,
}

func TestBuildDecisionRecord_Selection(t *testing.T) {
	result := &contracts.NegotiationResult{
		BalancedStrategies: []contracts.MitigationStrategy{
			{StrategyID: "reroute", Name: "Reroute shipments", CostImpact: 1200, RiskReduction: 0.7, Tradeoffs: []string{"slower"}},
			{StrategyID: "buffer", Name: "Buffer stock", CostImpact: 900, RiskReduction: 0.5, Tradeoffs: []string{"capital"}},
			{StrategyID: "dual", Name: "Dual sourcing", CostImpact: 2500, RiskReduction: 0.9, Tradeoffs: []string{"onboarding"}},
		},
		NegotiationParameters: sampleWeights,
	}

	rec := audit.BuildDecisionRecord("scn-5", "analyst-2", "corr-9", result)

	assert.Equal(t, contracts.EventNegotiationDecision, rec.EventType)
	assert.Equal(t, "scn-5", rec.ScenarioID)
	assert.Equal(t, "analyst-2", rec.UserID)
	assert.Equal(t, "corr-9", rec.CorrelationID)
	assert.False(t, rec.ConflictEscalated)
	assert.Empty(t, rec.ConflictReason)
	assert.False(t, rec.Timestamp.IsZero())

	require.Len(t, rec.SelectedStrategies, 3)
	assert.Equal(t, "reroute", rec.SelectedStrategies[0].StrategyID)
	assert.Equal(t, sampleWeights, rec.NegotiationParameters)

	require.NotEmpty(t, rec.Rationale)
	assert.Contains(t, rec.Rationale, "scn-5")
	assert.Contains(t, rec.Rationale, "Reroute shipments")
	assert.Contains(t, rec.Rationale, "0.60")
}

func TestBuildDecisionRecord_Escalation(t *testing.T) {
	result := &contracts.NegotiationResult{
		NegotiationParameters: sampleWeights,
		ConflictEscalation: &contracts.ConflictEscalation{
			Reason:                "no candidate strategy satisfies all hard thresholds",
			ConflictingObjectives: []contracts.Objective{contracts.ObjectiveCost, contracts.ObjectiveRisk},
			Explanation:           "cost threshold 500.00 and risk threshold 0.90 cannot be met together",
			RequiresUserInput:     true,
		},
	}

	rec := audit.BuildDecisionRecord("scn-6", "analyst-2", "", result)

	assert.True(t, rec.ConflictEscalated)
	assert.Equal(t, result.ConflictEscalation.Reason, rec.ConflictReason)
	assert.Empty(t, rec.SelectedStrategies)
	assert.NotNil(t, rec.SelectedStrategies, "selection list must serialize as [] rather than null")

	require.NotEmpty(t, rec.Rationale)
	assert.Contains(t, rec.Rationale, "escalated")
	assert.Contains(t, rec.Rationale, "cost, risk")
	assert.Contains(t, rec.Rationale, result.ConflictEscalation.Explanation)
}
