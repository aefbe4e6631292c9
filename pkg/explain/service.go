package explain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// ErrInvalidRequest flags a malformed explanation request (caller error).
var ErrInvalidRequest = errors.New("explain: invalid request")

// minSummaryLength is the non-triviality bar for the summary component.
const minSummaryLength = 50

// Request is one explanation invocation.
type Request struct {
	ScenarioID         string                         `json:"scenario_id"`
	Scenario           *contracts.Scenario            `json:"scenario,omitempty"`
	Impacts            *contracts.ImpactAnalysis      `json:"impacts,omitempty"`
	Strategies         []contracts.MitigationStrategy `json:"strategies,omitempty"`
	AgentContributions []contracts.AgentContribution  `json:"agent_contributions"`

	IncludeNaturalLanguage bool `json:"include_natural_language,omitempty"`
	IncludeDecisionTree    bool `json:"include_decision_tree,omitempty"`
	IncludeUncertainty     bool `json:"include_uncertainty,omitempty"`
}

// Validate rejects caller errors.
func (r Request) Validate() error {
	if contracts.NormalizeID(r.ScenarioID) == "" {
		return fmt.Errorf("%w: scenario_id is required", ErrInvalidRequest)
	}
	if len(r.AgentContributions) == 0 {
		return fmt.Errorf("%w: agent_contributions must not be empty", ErrInvalidRequest)
	}
	for _, c := range r.AgentContributions {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	if r.Impacts != nil {
		if err := r.Impacts.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Service composes the explanation components. Stateless: one instance
// serves concurrent requests; the only blocking point is the bounded
// reasoning-service call inside the Summarizer.
type Service struct {
	summarizer *Summarizer
	bands      []Band
	baseline   float64
	logger     *slog.Logger
}

// NewService builds the explainability service. bands may be nil and
// baseline non-positive to use the documented defaults.
func NewService(summarizer *Summarizer, bands []Band, baseline float64) *Service {
	return &Service{
		summarizer: summarizer,
		bands:      bands,
		baseline:   baseline,
		logger:     slog.Default().With("component", "explain"),
	}
}

// Explain produces the full explanation for one pipeline run. Requested
// components are always populated: the summary falls back to the
// rule-based template rather than ever being empty, and attributions are
// always derived from the contributions.
func (s *Service) Explain(ctx context.Context, req Request) (*contracts.ExplanationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &contracts.ExplanationResponse{
		Metadata: contracts.ExplanationMetadata{
			GeneratedAt:      time.Now().UTC(),
			GenerationMethod: MethodStructural,
		},
	}

	if req.IncludeDecisionTree {
		resp.DecisionTree = BuildDecisionTree(TreeInput{
			ScenarioID: req.ScenarioID,
			Scenario:   req.Scenario,
			Impacts:    req.Impacts,
			Strategies: req.Strategies,
		})
	}

	resp.AgentAttributions = BuildAttributions(req.AgentContributions, resp.DecisionTree)

	if req.IncludeUncertainty {
		resp.Uncertainty = Quantify(req.Impacts, req.AgentContributions, s.bands, s.baseline)
	}

	if req.IncludeNaturalLanguage {
		summary, method := s.summarizer.Summarize(ctx, SummaryInput{
			ScenarioID: req.ScenarioID,
			Scenario:   req.Scenario,
			Impacts:    req.Impacts,
			Strategies: req.Strategies,
			AgentNames: distinctAgentNames(req.AgentContributions),
		})
		resp.NaturalLanguageSummary = summary
		resp.Metadata.GenerationMethod = method
	}

	resp.Metadata.Completeness = completeness(resp)
	return resp, nil
}

// completeness is the fraction of the four optional components that are
// present and non-trivial.
func completeness(resp *contracts.ExplanationResponse) float64 {
	present := 0
	if len(resp.NaturalLanguageSummary) > minSummaryLength {
		present++
	}
	if t := resp.DecisionTree; t != nil && len(t.Nodes) >= 1 && len(t.Edges) >= 1 {
		present++
	}
	if len(resp.AgentAttributions) > 0 {
		present++
	}
	if u := resp.Uncertainty; u != nil && len(u.PredictionRanges) >= 1 {
		present++
	}
	return float64(present) / 4
}

func distinctAgentNames(contribs []contracts.AgentContribution) []string {
	seen := make(map[string]struct{}, len(contribs))
	var out []string
	for _, c := range contribs {
		if _, dup := seen[c.AgentName]; dup {
			continue
		}
		seen[c.AgentName] = struct{}{}
		out = append(out, c.AgentName)
	}
	return out
}
