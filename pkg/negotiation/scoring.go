// Package negotiation implements the strategy negotiation engine: weighted
// multi-objective scoring, top-three selection with deterministic
// tie-breaks, hard-threshold constraint checking, and the orchestrator that
// composes them into a single synchronous pipeline per invocation.
package negotiation

import (
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// DefaultPriorityBoost is the multiplier applied to an objective's base
// weight when its prioritize flag is set.
const DefaultPriorityBoost = 3.0

// DeriveWeights resolves user preference flags into normalized objective
// weights. Base weights are equal; each set flag multiplies its objective
// by boost; the result is normalized to sum to 1.
func DeriveWeights(prefs contracts.UserPreferences, boost float64) contracts.NegotiationParameters {
	if boost <= 0 {
		boost = DefaultPriorityBoost
	}
	cost, risk, sust := 1.0, 1.0, 1.0
	if prefs.PrioritizeCost {
		cost *= boost
	}
	if prefs.PrioritizeRisk {
		risk *= boost
	}
	if prefs.PrioritizeSustainability {
		sust *= boost
	}
	total := cost + risk + sust
	return contracts.NegotiationParameters{
		CostWeight:           cost / total,
		RiskWeight:           risk / total,
		SustainabilityWeight: sust / total,
	}
}

// poolStats holds per-metric extrema across the candidate pool, used to
// normalize raw metrics into [0,1].
type poolStats struct {
	minCost, maxCost float64
	minRisk, maxRisk float64
	minSust, maxSust float64
}

func computePoolStats(pool []contracts.MitigationStrategy) poolStats {
	st := poolStats{}
	for i, s := range pool {
		if i == 0 {
			st.minCost, st.maxCost = s.CostImpact, s.CostImpact
			st.minRisk, st.maxRisk = s.RiskReduction, s.RiskReduction
			st.minSust, st.maxSust = s.SustainabilityImpact, s.SustainabilityImpact
			continue
		}
		st.minCost = min(st.minCost, s.CostImpact)
		st.maxCost = max(st.maxCost, s.CostImpact)
		st.minRisk = min(st.minRisk, s.RiskReduction)
		st.maxRisk = max(st.maxRisk, s.RiskReduction)
		st.minSust = min(st.minSust, s.SustainabilityImpact)
		st.maxSust = max(st.maxSust, s.SustainabilityImpact)
	}
	return st
}

// normalize maps v into [0,1] relative to the pool range. invert flips the
// direction for metrics where lower is better. A degenerate range (all
// candidates equal on the metric) yields a neutral 0.5 so the metric
// neither rewards nor penalizes anyone.
func normalize(v, lo, hi float64, invert bool) float64 {
	if hi == lo {
		return 0.5
	}
	n := (v - lo) / (hi - lo)
	if invert {
		n = 1 - n
	}
	return n
}

// score computes the weighted desirability of one candidate relative to
// the pool. Cost is inverted (lower is better); higher risk reduction is
// better; lower sustainability impact is better. Implementation time is
// surfaced in summaries and trade-off data but carries no weight in the
// scalar score.
func score(s contracts.MitigationStrategy, st poolStats, w contracts.NegotiationParameters) float64 {
	costN := normalize(s.CostImpact, st.minCost, st.maxCost, true)
	riskN := normalize(s.RiskReduction, st.minRisk, st.maxRisk, false)
	sustN := normalize(s.SustainabilityImpact, st.minSust, st.maxSust, true)

	return w.CostWeight*costN + w.RiskWeight*riskN + w.SustainabilityWeight*sustN
}
