package explain

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/llm"
)

// Generation methods recorded in explanation metadata.
const (
	MethodReasoningService = "reasoning_service"
	MethodRuleBased        = "rule_based"
	MethodStructural       = "structural"
)

// DefaultReasoningTimeout bounds the single reasoning-service call.
const DefaultReasoningTimeout = 10 * time.Second

// Summarizer produces the natural-language summary: one bounded attempt
// against the reasoning service, then a deterministic template fallback.
// Both branches are plain functions so each is unit-testable on its own.
type Summarizer struct {
	client  llm.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewSummarizer wraps a reasoning client. A nil client means the fallback
// is always used.
func NewSummarizer(client llm.Client, timeout time.Duration) *Summarizer {
	if timeout <= 0 {
		timeout = DefaultReasoningTimeout
	}
	return &Summarizer{
		client:  client,
		timeout: timeout,
		logger:  slog.Default().With("component", "explain"),
	}
}

// SummaryInput is the structured material both summary branches draw from.
type SummaryInput struct {
	ScenarioID string
	Scenario   *contracts.Scenario
	Impacts    *contracts.ImpactAnalysis
	Strategies []contracts.MitigationStrategy
	AgentNames []string
}

// Summarize returns a non-empty summary and the generation method used.
// The reasoning service is called at most once; any failure (timeout,
// transport error, empty reply) falls through to the rule-based template.
func (s *Summarizer) Summarize(ctx context.Context, in SummaryInput) (string, string) {
	if s.client != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		text, err := s.client.Complete(callCtx, BuildPrompt(in))
		if err == nil && strings.TrimSpace(text) != "" {
			return text, MethodReasoningService
		}
		if err != nil {
			s.logger.WarnContext(ctx, "reasoning service unavailable, using rule-based summary",
				"scenario_id", in.ScenarioID, "error", err)
		}
	}
	return RuleBasedSummary(in), MethodRuleBased
}

// BuildPrompt renders the deterministic prompt for the reasoning service.
func BuildPrompt(in SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize the disruption analysis for scenario %s in one short paragraph.\n", in.ScenarioID)
	if sc := in.Scenario; sc != nil {
		fmt.Fprintf(&b, "Scenario: %s disruption, severity %.1f. %s\n", sc.DisruptionType, sc.Severity, sc.Description)
	}
	if imp := in.Impacts; imp != nil {
		fmt.Fprintf(&b, "Predicted impact: cost %.2f, delivery delay %.1f h, inventory shortfall %.0f units.\n",
			imp.CostImpact, imp.DeliveryTimeImpact, imp.InventoryImpact)
		if imp.Sustainability != nil {
			fmt.Fprintf(&b, "Carbon footprint: %.1f kgCO2.\n", imp.Sustainability.CarbonFootprint)
		}
	}
	for i, st := range in.Strategies {
		if i >= maxStrategyOutcomes {
			break
		}
		fmt.Fprintf(&b, "Strategy %d: %s — cost %.2f, risk reduction %.2f, sustainability impact %.2f.\n",
			i+1, st.Name, st.CostImpact, st.RiskReduction, st.SustainabilityImpact)
	}
	if len(in.AgentNames) > 0 {
		names := append([]string(nil), in.AgentNames...)
		sort.Strings(names)
		fmt.Fprintf(&b, "Contributing agents: %s.\n", strings.Join(names, ", "))
	}
	return b.String()
}

// RuleBasedSummary builds the deterministic fallback summary from the same
// structured inputs. Always non-empty, always longer than a trivial stub.
func RuleBasedSummary(in SummaryInput) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario %s was analyzed by the resilience pipeline.", in.ScenarioID)
	if sc := in.Scenario; sc != nil && sc.DisruptionType != "" {
		fmt.Fprintf(&b, " The disruption is classified as %s with severity %.1f.", sc.DisruptionType, sc.Severity)
	}
	if imp := in.Impacts; imp != nil {
		fmt.Fprintf(&b, " Predicted impact: cost %.2f currency units, %.1f hours of delivery delay, and %.0f units of inventory shortfall.",
			imp.CostImpact, imp.DeliveryTimeImpact, imp.InventoryImpact)
		if imp.Sustainability != nil {
			fmt.Fprintf(&b, " Estimated carbon footprint is %.1f kgCO2.", imp.Sustainability.CarbonFootprint)
		}
	}
	switch n := len(in.Strategies); {
	case n == 0:
		b.WriteString(" No mitigation strategies were supplied for this run.")
	default:
		names := make([]string, 0, min(n, maxStrategyOutcomes))
		for i := 0; i < len(in.Strategies) && i < maxStrategyOutcomes; i++ {
			names = append(names, in.Strategies[i].Name)
		}
		fmt.Fprintf(&b, " Top mitigation options: %s.", strings.Join(names, ", "))
	}
	if len(in.AgentNames) > 0 {
		names := append([]string(nil), in.AgentNames...)
		sort.Strings(names)
		fmt.Fprintf(&b, " Inputs were contributed by: %s.", strings.Join(names, ", "))
	}
	return b.String()
}
