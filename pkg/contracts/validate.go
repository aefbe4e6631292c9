package contracts

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// ErrInvalidImpact flags an impact analysis with out-of-range values.
	ErrInvalidImpact = errors.New("contracts: invalid impact analysis")
	// ErrInvalidStrategy flags a malformed mitigation strategy.
	ErrInvalidStrategy = errors.New("contracts: invalid mitigation strategy")
	// ErrInvalidContribution flags a malformed agent contribution.
	ErrInvalidContribution = errors.New("contracts: invalid agent contribution")
	// ErrInvalidTree flags a decision tree that violates referential integrity.
	ErrInvalidTree = errors.New("contracts: invalid decision tree")
)

// NormalizeID trims and NFC-normalizes an identifier so that visually
// identical ids from different upstream encoders compare equal.
func NormalizeID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// Validate checks the range invariants of an impact analysis.
func (i ImpactAnalysis) Validate() error {
	if i.CostImpact < 0 {
		return fmt.Errorf("%w: cost_impact %.2f is negative", ErrInvalidImpact, i.CostImpact)
	}
	if i.DeliveryTimeImpact < 0 {
		return fmt.Errorf("%w: delivery_time_impact %.2f is negative", ErrInvalidImpact, i.DeliveryTimeImpact)
	}
	if i.InventoryImpact < 0 {
		return fmt.Errorf("%w: inventory_impact %.2f is negative", ErrInvalidImpact, i.InventoryImpact)
	}
	if s := i.Sustainability; s != nil {
		if s.CarbonFootprint < 0 {
			return fmt.Errorf("%w: carbon_footprint %.2f is negative", ErrInvalidImpact, s.CarbonFootprint)
		}
		if s.SustainabilityScore < 0 || s.SustainabilityScore > 100 {
			return fmt.Errorf("%w: sustainability_score %.2f outside [0,100]", ErrInvalidImpact, s.SustainabilityScore)
		}
	}
	return nil
}

// Validate checks the field invariants of a mitigation strategy.
func (s MitigationStrategy) Validate() error {
	if NormalizeID(s.StrategyID) == "" {
		return fmt.Errorf("%w: strategy_id is required", ErrInvalidStrategy)
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: %s: name is required", ErrInvalidStrategy, s.StrategyID)
	}
	if s.CostImpact < 0 {
		return fmt.Errorf("%w: %s: cost_impact %.2f is negative", ErrInvalidStrategy, s.StrategyID, s.CostImpact)
	}
	if s.RiskReduction < 0 || s.RiskReduction > 1 {
		return fmt.Errorf("%w: %s: risk_reduction %.3f outside [0,1]", ErrInvalidStrategy, s.StrategyID, s.RiskReduction)
	}
	if s.SustainabilityImpact < 0 {
		return fmt.Errorf("%w: %s: sustainability_impact %.2f is negative", ErrInvalidStrategy, s.StrategyID, s.SustainabilityImpact)
	}
	if s.ImplementationTime < 0 {
		return fmt.Errorf("%w: %s: implementation_time %.2f is negative", ErrInvalidStrategy, s.StrategyID, s.ImplementationTime)
	}
	if len(s.Tradeoffs) == 0 {
		return fmt.Errorf("%w: %s: tradeoffs must not be empty", ErrInvalidStrategy, s.StrategyID)
	}
	return nil
}

// Validate checks an upstream agent contribution.
func (c AgentContribution) Validate() error {
	if strings.TrimSpace(c.AgentName) == "" {
		return fmt.Errorf("%w: agent_name is required", ErrInvalidContribution)
	}
	if c.Confidence != nil && (*c.Confidence < 0 || *c.Confidence > 1) {
		return fmt.Errorf("%w: %s: confidence %.3f outside [0,1]", ErrInvalidContribution, c.AgentName, *c.Confidence)
	}
	if r := c.UncertaintyRange; r != nil && r.Lower > r.Upper {
		return fmt.Errorf("%w: %s: uncertainty lower %.3f above upper %.3f", ErrInvalidContribution, c.AgentName, r.Lower, r.Upper)
	}
	return nil
}

// Validate checks the structural invariants of a decision tree: node ids
// unique, labels non-empty, node types known, and every edge endpoint
// resolving to an existing node.
func (t *DecisionTree) Validate() error {
	if t == nil {
		return nil
	}
	ids := make(map[string]struct{}, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.NodeID == "" {
			return fmt.Errorf("%w: node with empty id", ErrInvalidTree)
		}
		if _, dup := ids[n.NodeID]; dup {
			return fmt.Errorf("%w: duplicate node id %q", ErrInvalidTree, n.NodeID)
		}
		if n.Label == "" {
			return fmt.Errorf("%w: node %q has empty label", ErrInvalidTree, n.NodeID)
		}
		switch n.Type {
		case NodeDecision, NodeOutcome, NodeCondition:
		default:
			return fmt.Errorf("%w: node %q has unknown type %q", ErrInvalidTree, n.NodeID, n.Type)
		}
		ids[n.NodeID] = struct{}{}
	}
	for _, e := range t.Edges {
		if e.Label == "" {
			return fmt.Errorf("%w: edge %s->%s has empty label", ErrInvalidTree, e.From, e.To)
		}
		if _, ok := ids[e.From]; !ok {
			return fmt.Errorf("%w: edge references unknown node %q", ErrInvalidTree, e.From)
		}
		if _, ok := ids[e.To]; !ok {
			return fmt.Errorf("%w: edge references unknown node %q", ErrInvalidTree, e.To)
		}
	}
	return nil
}
