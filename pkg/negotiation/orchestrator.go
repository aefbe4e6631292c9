package negotiation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// ErrInvalidRequest flags a malformed negotiation request: the caller is
// violating a precondition and must fix the request, not retry it.
var ErrInvalidRequest = errors.New("negotiation: invalid request")

// Request carries everything one negotiation invocation needs. Upstream
// collaborators supply the impacts and candidate pool; the identity layer
// supplies the user and correlation ids (opaque to this engine).
type Request struct {
	ScenarioID    string                         `json:"scenario_id"`
	Impacts       *contracts.ImpactAnalysis      `json:"impacts"`
	Strategies    []contracts.MitigationStrategy `json:"strategies"`
	Preferences   contracts.UserPreferences      `json:"user_preferences"`
	UserID        string                         `json:"user_id"`
	CorrelationID string                         `json:"correlation_id,omitempty"`
}

// Validate rejects caller errors before any computation or audit write.
func (r Request) Validate() error {
	if contracts.NormalizeID(r.ScenarioID) == "" {
		return fmt.Errorf("%w: scenario_id is required", ErrInvalidRequest)
	}
	if r.Impacts == nil {
		return fmt.Errorf("%w: impacts are required", ErrInvalidRequest)
	}
	if err := r.Impacts.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if len(r.Strategies) == 0 {
		return fmt.Errorf("%w: strategies must not be empty", ErrInvalidRequest)
	}
	for _, s := range r.Strategies {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

// Orchestrator runs the negotiation pipeline:
// Start -> ScoreAndSelect -> ConstraintCheck -> {Success | Escalate} -> Audit -> End.
// It is stateless; one instance serves arbitrarily many concurrent requests.
type Orchestrator struct {
	boost   float64
	emitter *audit.Emitter
	logger  *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPriorityBoost overrides the weight multiplier applied per prioritize flag.
func WithPriorityBoost(boost float64) Option {
	return func(o *Orchestrator) { o.boost = boost }
}

// WithLogger sets the component logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// NewOrchestrator builds an orchestrator emitting audit records through the
// given emitter. A nil emitter disables auditing (tests only).
func NewOrchestrator(emitter *audit.Emitter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		boost:   DefaultPriorityBoost,
		emitter: emitter,
		logger:  slog.Default().With("component", "negotiation"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Negotiate runs one synchronous negotiation. On success the result holds
// exactly three balanced strategies plus trade-off projections over the
// full candidate pool; when the thresholds are irreconcilable it holds a
// conflict escalation instead. Either way exactly one audit record is
// emitted. Caller errors return before any audit write.
func (o *Orchestrator) Negotiate(ctx context.Context, req Request) (*contracts.NegotiationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	pool := Dedupe(req.Strategies)
	top, weights, err := Select(pool, req.Preferences, o.boost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	result := &contracts.NegotiationResult{NegotiationParameters: weights}

	if esc := CheckConstraints(pool, req.Preferences); esc != nil {
		result.ConflictEscalation = esc
		o.logger.InfoContext(ctx, "negotiation escalated",
			"scenario_id", req.ScenarioID,
			"conflicting_objectives", esc.ConflictingObjectives)
	} else {
		result.BalancedStrategies = top
		result.TradeoffVisualizations = tradeoffProjections(pool)
	}

	o.emitAudit(ctx, req, result)
	return result, nil
}

// tradeoffProjections builds the three pairwise projections over the full
// pool, so options outside the chosen three remain visible for comparison.
func tradeoffProjections(pool []contracts.MitigationStrategy) []contracts.TradeoffVisualization {
	costRisk := contracts.TradeoffVisualization{Name: "cost_vs_risk", XAxis: "cost_impact", YAxis: "risk_reduction"}
	costSust := contracts.TradeoffVisualization{Name: "cost_vs_sustainability", XAxis: "cost_impact", YAxis: "sustainability_impact"}
	riskSust := contracts.TradeoffVisualization{Name: "risk_vs_sustainability", XAxis: "risk_reduction", YAxis: "sustainability_impact"}

	for _, s := range pool {
		costRisk.Points = append(costRisk.Points, contracts.TradeoffPoint{StrategyID: s.StrategyID, X: s.CostImpact, Y: s.RiskReduction})
		costSust.Points = append(costSust.Points, contracts.TradeoffPoint{StrategyID: s.StrategyID, X: s.CostImpact, Y: s.SustainabilityImpact})
		riskSust.Points = append(riskSust.Points, contracts.TradeoffPoint{StrategyID: s.StrategyID, X: s.RiskReduction, Y: s.SustainabilityImpact})
	}
	return []contracts.TradeoffVisualization{costRisk, costSust, riskSust}
}

// emitAudit records the decision. Audit persistence is fire-and-forget:
// the decision was already valid without the write, so a sink failure is
// logged and never fails the response.
func (o *Orchestrator) emitAudit(ctx context.Context, req Request, result *contracts.NegotiationResult) {
	if o.emitter == nil {
		return
	}
	rec := audit.BuildDecisionRecord(req.ScenarioID, req.UserID, req.CorrelationID, result)
	if err := o.emitter.Emit(ctx, rec); err != nil {
		o.logger.WarnContext(ctx, "audit emit failed",
			"scenario_id", req.ScenarioID, "error", err)
	}
}
