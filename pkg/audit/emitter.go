package audit

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// Sink accepts audit records for durable append-only storage.
type Sink interface {
	Append(ctx context.Context, rec contracts.AuditRecord) error
}

// Emitter fans one decision record out to every configured sink. A sink
// failure is reported but must not fail the negotiation response; the
// caller decides whether to log or ignore the returned error.
type Emitter struct {
	sinks  []Sink
	logger *slog.Logger
}

// NewEmitter creates an Emitter over the given sinks. Nil sinks are skipped.
func NewEmitter(sinks ...Sink) *Emitter {
	e := &Emitter{logger: slog.Default().With("component", "audit")}
	for _, s := range sinks {
		if s != nil {
			e.sinks = append(e.sinks, s)
		}
	}
	return e
}

// Emit appends the record to every sink. All sinks are attempted even when
// an earlier one fails; the first failure is returned.
func (e *Emitter) Emit(ctx context.Context, rec contracts.AuditRecord) error {
	var firstErr error
	for _, s := range e.sinks {
		if err := s.Append(ctx, rec); err != nil {
			e.logger.WarnContext(ctx, "audit sink append failed",
				"scenario_id", rec.ScenarioID, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("audit: append: %w", err)
			}
		}
	}
	return firstErr
}
