package explain_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/explain"
)

func sampleImpacts() *contracts.ImpactAnalysis {
	return &contracts.ImpactAnalysis{
		CostImpact:         75000,
		DeliveryTimeImpact: 48,
		InventoryImpact:    3000,
		Sustainability: &contracts.SustainabilityImpact{
			CarbonFootprint:     820.5,
			SustainabilityScore: 61,
		},
	}
}

func sampleStrategies(n int) []contracts.MitigationStrategy {
	ids := []string{"reroute", "buffer-stock", "dual-source", "air-freight", "defer"}
	out := make([]contracts.MitigationStrategy, 0, n)
	for i := 0; i < n && i < len(ids); i++ {
		out = append(out, contracts.MitigationStrategy{
			StrategyID:    ids[i],
			Name:          "Strategy " + ids[i],
			CostImpact:    float64(1000 * (i + 1)),
			RiskReduction: 0.5,
			Tradeoffs:     []string{"cost vs speed"},
		})
	}
	return out
}

func nodeIDs(t *contracts.DecisionTree) map[string]contracts.DecisionNode {
	m := make(map[string]contracts.DecisionNode, len(t.Nodes))
	for _, n := range t.Nodes {
		m[n.NodeID] = n
	}
	return m
}

func TestBuildDecisionTree_FullPipeline(t *testing.T) {
	tree := explain.BuildDecisionTree(explain.TreeInput{
		ScenarioID: "scn-9",
		Scenario:   &contracts.Scenario{ScenarioID: "scn-9", DisruptionType: "port-closure", Severity: 0.8},
		Impacts:    sampleImpacts(),
		Strategies: sampleStrategies(3),
	})
	require.NotNil(t, tree)
	require.NoError(t, tree.Validate())

	nodes := nodeIDs(tree)
	for _, id := range []string{"root", "data-gathering", "scenario-generation", "impact-analysis", "strategy-generation"} {
		assert.Contains(t, nodes, id)
	}

	// One outcome leaf per impact dimension, carbon included.
	for _, id := range []string{"impact-cost", "impact-delivery-time", "impact-inventory", "impact-carbon"} {
		require.Contains(t, nodes, id)
		assert.Equal(t, contracts.NodeOutcome, nodes[id].Type)
	}

	// One outcome per supplied strategy, ranked order.
	for i, name := range []string{"Strategy reroute", "Strategy buffer-stock", "Strategy dual-source"} {
		id := fmt.Sprintf("strategy-outcome-%d", i)
		require.Contains(t, nodes, id)
		assert.Equal(t, contracts.NodeOutcome, nodes[id].Type)
		assert.Contains(t, nodes[id].Label, name)
	}

	assert.Contains(t, nodes["scenario-generation"].Label, "port-closure")
	assert.Equal(t, "data-gathering-agent", nodes["data-gathering"].AgentAttribution)
}

func TestBuildDecisionTree_StrategyFanOutCapped(t *testing.T) {
	tree := explain.BuildDecisionTree(explain.TreeInput{
		ScenarioID: "scn-9",
		Strategies: sampleStrategies(5),
	})
	require.NoError(t, tree.Validate())

	var strategyLeaves int
	for _, n := range tree.Nodes {
		if n.Type == contracts.NodeOutcome {
			strategyLeaves++
		}
	}
	assert.Equal(t, 3, strategyLeaves)
}

func TestBuildDecisionTree_RepeatedStrategyIDsCollapseToOneLeaf(t *testing.T) {
	dup := sampleStrategies(1)[0]
	tree := explain.BuildDecisionTree(explain.TreeInput{
		ScenarioID: "scn-9",
		Strategies: []contracts.MitigationStrategy{dup, dup, sampleStrategies(2)[1]},
	})
	require.NoError(t, tree.Validate())

	var leaves int
	for _, n := range tree.Nodes {
		if n.Type == contracts.NodeOutcome {
			leaves++
		}
	}
	assert.Equal(t, 2, leaves)
}

func TestBuildDecisionTree_StrategyIDCannotShadowBackboneNodes(t *testing.T) {
	tree := explain.BuildDecisionTree(explain.TreeInput{
		ScenarioID: "scn-9",
		Strategies: []contracts.MitigationStrategy{{
			StrategyID:    "generation",
			Name:          "Oddly named strategy",
			CostImpact:    500,
			RiskReduction: 0.4,
			Tradeoffs:     []string{"none"},
		}},
	})
	require.NoError(t, tree.Validate())

	nodes := nodeIDs(tree)
	require.Contains(t, nodes, "strategy-generation")
	assert.Equal(t, contracts.NodeDecision, nodes["strategy-generation"].Type)
	require.Contains(t, nodes, "strategy-outcome-0")
	assert.Contains(t, nodes["strategy-outcome-0"].Label, "Oddly named strategy")
}

func TestBuildDecisionTree_MinimalInput(t *testing.T) {
	tree := explain.BuildDecisionTree(explain.TreeInput{ScenarioID: "scn-1"})
	require.NoError(t, tree.Validate())

	// Backbone only: root plus data gathering, one edge between them.
	assert.Len(t, tree.Nodes, 2)
	assert.Len(t, tree.Edges, 1)
	assert.Equal(t, "root", tree.Edges[0].From)
	assert.Equal(t, "data-gathering", tree.Edges[0].To)
}

func TestBuildDecisionTree_CarbonLeafOnlyWithSustainability(t *testing.T) {
	impacts := sampleImpacts()
	impacts.Sustainability = nil

	tree := explain.BuildDecisionTree(explain.TreeInput{ScenarioID: "scn-1", Impacts: impacts})
	require.NoError(t, tree.Validate())

	nodes := nodeIDs(tree)
	assert.NotContains(t, nodes, "impact-carbon")
	// Zero-valued dimensions still get leaves.
	assert.Contains(t, nodes, "impact-cost")
	assert.Contains(t, nodes, "impact-delivery-time")
	assert.Contains(t, nodes, "impact-inventory")
}

func TestBuildDecisionTree_Deterministic(t *testing.T) {
	in := explain.TreeInput{
		ScenarioID: "scn-9",
		Scenario:   &contracts.Scenario{DisruptionType: "strike"},
		Impacts:    sampleImpacts(),
		Strategies: sampleStrategies(2),
	}
	first := explain.BuildDecisionTree(in)
	second := explain.BuildDecisionTree(in)
	assert.Equal(t, first, second)
}
