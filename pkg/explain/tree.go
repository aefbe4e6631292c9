// Package explain builds the decision-tree, attribution, uncertainty, and
// natural-language components of a pipeline explanation, and composes them
// into a single response with a completeness score.
package explain

import (
	"fmt"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// Canonical agent names attached to backbone stage nodes. Upstream
// contributions may name the same agents; attribution merging dedupes.
const (
	agentDataGathering    = "data-gathering-agent"
	agentScenarioGen      = "scenario-generation-agent"
	agentImpactAnalysis   = "impact-analysis-agent"
	agentStrategyGen      = "strategy-generation-agent"
	agentNegotiationAgent = "negotiation-agent"
)

// maxStrategyOutcomes caps the fan-out under the strategy-generation stage.
const maxStrategyOutcomes = 3

// TreeInput is what the builder knows about the pipeline run.
type TreeInput struct {
	ScenarioID string
	Scenario   *contracts.Scenario
	Impacts    *contracts.ImpactAnalysis
	Strategies []contracts.MitigationStrategy
}

// BuildDecisionTree constructs the fixed-shape explanation graph:
// root -> data-gathering -> [scenario-gen] -> [impact-analysis -> outcome
// per impact dimension] -> [strategy-gen -> outcome per top strategy].
// The construction is deterministic and structural; the returned tree
// always satisfies referential integrity (see contracts.DecisionTree.Validate).
func BuildDecisionTree(in TreeInput) *contracts.DecisionTree {
	t := &contracts.DecisionTree{}

	root := addNode(t, "root", fmt.Sprintf("Disruption response for scenario %s", in.ScenarioID), contracts.NodeDecision, "")
	prev := addNode(t, "data-gathering", "Gather supply chain signals", contracts.NodeCondition, agentDataGathering)
	addEdge(t, root, prev, "data-gathering")

	if in.Scenario != nil {
		label := "Generate disruption scenario"
		if in.Scenario.DisruptionType != "" {
			label = fmt.Sprintf("Generate %s disruption scenario", in.Scenario.DisruptionType)
		}
		n := addNode(t, "scenario-generation", label, contracts.NodeCondition, agentScenarioGen)
		addEdge(t, prev, n, "scenario-generation")
		prev = n
	}

	if in.Impacts != nil {
		n := addNode(t, "impact-analysis", "Analyze predicted impact", contracts.NodeDecision, agentImpactAnalysis)
		addEdge(t, prev, n, "impact-analysis")
		for _, dim := range impactDimensions(in.Impacts) {
			leaf := addNode(t, "impact-"+dim.id, dim.label, contracts.NodeOutcome, agentImpactAnalysis)
			addEdge(t, n, leaf, dim.id)
		}
		prev = n
	}

	if strategies := dedupeStrategies(in.Strategies); len(strategies) > 0 {
		n := addNode(t, "strategy-generation", "Generate mitigation strategies", contracts.NodeDecision, agentStrategyGen)
		addEdge(t, prev, n, "strategy-generation")
		limit := min(len(strategies), maxStrategyOutcomes)
		for i := 0; i < limit; i++ {
			s := strategies[i]
			// The leaf id is positional rather than derived from the
			// strategy id, so caller-supplied ids can never collide with
			// backbone node ids.
			leaf := addNode(t, fmt.Sprintf("strategy-outcome-%d", i),
				fmt.Sprintf("%s (cost %.0f, risk reduction %.2f)", s.Name, s.CostImpact, s.RiskReduction),
				contracts.NodeOutcome, agentNegotiationAgent)
			addEdge(t, n, leaf, "ranked-strategy")
		}
	}

	return t
}

// dedupeStrategies keeps the first occurrence per normalized strategy id,
// preserving ranking order, so a repeated id never yields two leaves.
func dedupeStrategies(strategies []contracts.MitigationStrategy) []contracts.MitigationStrategy {
	seen := make(map[string]bool, len(strategies))
	out := make([]contracts.MitigationStrategy, 0, len(strategies))
	for _, s := range strategies {
		id := contracts.NormalizeID(s.StrategyID)
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, s)
	}
	return out
}

type impactDim struct {
	id    string
	label string
}

// impactDimensions lists the outcome leaves for the dimensions actually
// present in the analysis. Zero is a legitimate predicted value, so the
// three base dimensions are always present; carbon only when supplied.
func impactDimensions(impacts *contracts.ImpactAnalysis) []impactDim {
	dims := []impactDim{
		{"cost", fmt.Sprintf("Cost impact %.2f", impacts.CostImpact)},
		{"delivery-time", fmt.Sprintf("Delivery delay %.1f h", impacts.DeliveryTimeImpact)},
		{"inventory", fmt.Sprintf("Inventory shortfall %.0f units", impacts.InventoryImpact)},
	}
	if impacts.Sustainability != nil {
		dims = append(dims, impactDim{"carbon", fmt.Sprintf("Carbon footprint %.1f kgCO2", impacts.Sustainability.CarbonFootprint)})
	}
	return dims
}

func addNode(t *contracts.DecisionTree, id, label string, typ contracts.NodeType, agent string) string {
	t.Nodes = append(t.Nodes, contracts.DecisionNode{
		NodeID:           id,
		Label:            label,
		Type:             typ,
		AgentAttribution: agent,
	})
	return id
}

func addEdge(t *contracts.DecisionTree, from, to, label string) {
	t.Edges = append(t.Edges, contracts.DecisionEdge{From: from, To: to, Label: label})
}
