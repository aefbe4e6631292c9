//go:build property
// +build property

// Package negotiation_test contains property-based tests for weight
// derivation, scoring, selection, and constraint checking.
package negotiation_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/negotiation"
)

// genPool produces a pool of n distinct candidates with bounded metrics.
func genPool(n int) gopter.Gen {
	return gen.SliceOfN(n, gopter.CombineGens(
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1e4),
	).Map(func(vals []interface{}) contracts.MitigationStrategy {
		return contracts.MitigationStrategy{
			CostImpact:           vals[0].(float64),
			RiskReduction:        vals[1].(float64),
			SustainabilityImpact: vals[2].(float64),
			Tradeoffs:            []string{"generated"},
		}
	})).Map(func(pool []contracts.MitigationStrategy) []contracts.MitigationStrategy {
		for i := range pool {
			pool[i].StrategyID = fmt.Sprintf("strat-%03d", i)
			pool[i].Name = fmt.Sprintf("Strategy %03d", i)
		}
		return pool
	})
}

func genPrefs() gopter.Gen {
	return gopter.CombineGens(gen.Bool(), gen.Bool(), gen.Bool()).
		Map(func(vals []interface{}) contracts.UserPreferences {
			return contracts.UserPreferences{
				PrioritizeCost:           vals[0].(bool),
				PrioritizeRisk:           vals[1].(bool),
				PrioritizeSustainability: vals[2].(bool),
			}
		})
}

// TestWeightsAlwaysNormalized verifies derived weights form a convex combination.
// Property: weights are positive and sum to 1 for any priority flags and boost.
func TestWeightsAlwaysNormalized(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Weights sum to one", prop.ForAll(
		func(prefs contracts.UserPreferences, boost float64) bool {
			w := negotiation.DeriveWeights(prefs, boost)
			sum := w.CostWeight + w.RiskWeight + w.SustainabilityWeight
			if math.Abs(sum-1) > 1e-9 {
				return false
			}
			return w.CostWeight > 0 && w.RiskWeight > 0 && w.SustainabilityWeight > 0
		},
		genPrefs(),
		gen.Float64Range(1, 10),
	))

	properties.TestingRun(t)
}

// TestSelectionCardinality verifies Select returns exactly three distinct
// strategies for any pool of at least three distinct candidates.
func TestSelectionCardinality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Exactly three distinct strategies", prop.ForAll(
		func(pool []contracts.MitigationStrategy, prefs contracts.UserPreferences) bool {
			top, _, err := negotiation.Select(pool, prefs, negotiation.DefaultPriorityBoost)
			if err != nil {
				return false
			}
			if len(top) != 3 {
				return false
			}
			seen := map[string]bool{}
			for _, s := range top {
				if seen[s.StrategyID] {
					return false
				}
				seen[s.StrategyID] = true
			}
			return true
		},
		genPool(8),
		genPrefs(),
	))

	properties.TestingRun(t)
}

// TestSelectionDeterminism verifies a second run over the same inputs
// returns the same ranking.
func TestSelectionDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Selection is deterministic", prop.ForAll(
		func(pool []contracts.MitigationStrategy, prefs contracts.UserPreferences) bool {
			first, _, err1 := negotiation.Select(pool, prefs, negotiation.DefaultPriorityBoost)
			second, _, err2 := negotiation.Select(pool, prefs, negotiation.DefaultPriorityBoost)
			if err1 != nil || err2 != nil {
				return err1 != nil && err2 != nil
			}
			for i := range first {
				if first[i].StrategyID != second[i].StrategyID {
					return false
				}
			}
			return true
		},
		genPool(8),
		genPrefs(),
	))

	properties.TestingRun(t)
}

// TestEscalationConsistency verifies the constraint check agrees with a
// direct scan of the pool: a conflict is reported exactly when no single
// candidate passes every present threshold.
func TestEscalationConsistency(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("Conflict iff no candidate satisfies all thresholds", prop.ForAll(
		func(pool []contracts.MitigationStrategy, maxCost, minRisk float64) bool {
			prefs := contracts.UserPreferences{
				MaxCostImpact:    &maxCost,
				MinRiskReduction: &minRisk,
			}

			satisfiable := false
			for _, s := range pool {
				if s.CostImpact <= maxCost && s.RiskReduction >= minRisk {
					satisfiable = true
					break
				}
			}

			esc := negotiation.CheckConstraints(pool, prefs)
			if satisfiable {
				return esc == nil
			}
			return esc != nil && esc.RequiresUserInput && len(esc.ConflictingObjectives) > 0
		},
		genPool(6),
		gen.Float64Range(0, 1e6),
		gen.Float64Range(0, 1),
	))

	properties.TestingRun(t)
}
