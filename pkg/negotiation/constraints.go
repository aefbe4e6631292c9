package negotiation

import (
	"fmt"
	"strings"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// satisfiesAll reports whether a single candidate passes every hard
// threshold present in the preferences.
func satisfiesAll(s contracts.MitigationStrategy, prefs contracts.UserPreferences) bool {
	if prefs.MaxCostImpact != nil && s.CostImpact > *prefs.MaxCostImpact {
		return false
	}
	if prefs.MinRiskReduction != nil && s.RiskReduction < *prefs.MinRiskReduction {
		return false
	}
	if prefs.MaxSustainabilityImpact != nil && s.SustainabilityImpact > *prefs.MaxSustainabilityImpact {
		return false
	}
	return true
}

// thresholdViolations returns the threshold kinds that no candidate in the
// pool satisfies individually.
func thresholdViolations(pool []contracts.MitigationStrategy, prefs contracts.UserPreferences) []contracts.Objective {
	var out []contracts.Objective
	if prefs.MaxCostImpact != nil {
		if !anySatisfies(pool, func(s contracts.MitigationStrategy) bool {
			return s.CostImpact <= *prefs.MaxCostImpact
		}) {
			out = append(out, contracts.ObjectiveCost)
		}
	}
	if prefs.MinRiskReduction != nil {
		if !anySatisfies(pool, func(s contracts.MitigationStrategy) bool {
			return s.RiskReduction >= *prefs.MinRiskReduction
		}) {
			out = append(out, contracts.ObjectiveRisk)
		}
	}
	if prefs.MaxSustainabilityImpact != nil {
		if !anySatisfies(pool, func(s contracts.MitigationStrategy) bool {
			return s.SustainabilityImpact <= *prefs.MaxSustainabilityImpact
		}) {
			out = append(out, contracts.ObjectiveSustainability)
		}
	}
	return out
}

func anySatisfies(pool []contracts.MitigationStrategy, ok func(contracts.MitigationStrategy) bool) bool {
	for _, s := range pool {
		if ok(s) {
			return true
		}
	}
	return false
}

// presentThresholds lists the objectives constrained by the preferences.
func presentThresholds(prefs contracts.UserPreferences) []contracts.Objective {
	var out []contracts.Objective
	if prefs.MaxCostImpact != nil {
		out = append(out, contracts.ObjectiveCost)
	}
	if prefs.MinRiskReduction != nil {
		out = append(out, contracts.ObjectiveRisk)
	}
	if prefs.MaxSustainabilityImpact != nil {
		out = append(out, contracts.ObjectiveSustainability)
	}
	return out
}

// CheckConstraints decides whether the pool can satisfy the stakeholder's
// hard thresholds. The joint check is per candidate over the full pool:
// some single candidate must pass all present thresholds at once. A nil
// return means no conflict. When only the joint check fails (each
// threshold has some satisfier, but never the same candidate), the
// conflict set lists every present threshold, since they conflict jointly
// rather than individually.
func CheckConstraints(pool []contracts.MitigationStrategy, prefs contracts.UserPreferences) *contracts.ConflictEscalation {
	if !prefs.HasThresholds() {
		return nil
	}
	if anySatisfies(pool, func(s contracts.MitigationStrategy) bool { return satisfiesAll(s, prefs) }) {
		return nil
	}

	objectives := thresholdViolations(pool, prefs)
	jointly := len(objectives) == 0
	if jointly {
		objectives = presentThresholds(prefs)
	}

	return &contracts.ConflictEscalation{
		Reason:                "no candidate strategy satisfies all hard thresholds",
		ConflictingObjectives: objectives,
		Explanation:           buildConflictExplanation(prefs, objectives, jointly),
		RequiresUserInput:     true,
	}
}

func buildConflictExplanation(prefs contracts.UserPreferences, objectives []contracts.Objective, jointly bool) string {
	var b strings.Builder
	if jointly {
		b.WriteString("Each threshold is individually satisfiable, but no single candidate meets every threshold at once. Conflicting thresholds: ")
	} else {
		b.WriteString("The following objectives have thresholds no candidate can meet: ")
	}
	for i, obj := range objectives {
		if i > 0 {
			b.WriteString("; ")
		}
		switch obj {
		case contracts.ObjectiveCost:
			fmt.Fprintf(&b, "cost (max cost impact threshold %.2f)", deref(prefs.MaxCostImpact))
		case contracts.ObjectiveRisk:
			fmt.Fprintf(&b, "risk (min risk reduction threshold %.2f)", deref(prefs.MinRiskReduction))
		case contracts.ObjectiveSustainability:
			fmt.Fprintf(&b, "sustainability (max sustainability impact threshold %.2f)", deref(prefs.MaxSustainabilityImpact))
		}
	}
	b.WriteString(". Relax one or more thresholds and resubmit.")
	return b.String()
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
