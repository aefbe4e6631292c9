package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // Postgres driver

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// PostgresSink persists audit records to Postgres for shared deployments.
type PostgresSink struct {
	db *sql.DB
}

// NewPostgresSink wraps an open Postgres connection.
func NewPostgresSink(db *sql.DB) *PostgresSink {
	return &PostgresSink{db: db}
}

// Init creates the audit table if needed.
func (s *PostgresSink) Init(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_records (
		record_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		scenario_id TEXT NOT NULL,
		user_id TEXT,
		correlation_id TEXT,
		conflict_escalated BOOLEAN NOT NULL DEFAULT FALSE,
		conflict_reason TEXT,
		rationale TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("audit: postgres init: %w", err)
	}
	return nil
}

// Append implements Sink.
func (s *PostgresSink) Append(ctx context.Context, rec contracts.AuditRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit: marshal record: %w", err)
	}

	query := `
	INSERT INTO audit_records
		(record_id, event_type, scenario_id, user_id, correlation_id, conflict_escalated, conflict_reason, rationale, payload, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = s.db.ExecContext(ctx, query,
		uuid.New().String(), rec.EventType, rec.ScenarioID, rec.UserID, rec.CorrelationID,
		rec.ConflictEscalated, rec.ConflictReason, rec.Rationale, payload, rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("audit: postgres insert: %w", err)
	}
	return nil
}

// CountByScenario returns how many records exist for a scenario.
func (s *PostgresSink) CountByScenario(ctx context.Context, scenarioID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_records WHERE scenario_id = $1`, scenarioID).Scan(&n)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("audit: postgres count: %w", err)
	}
	return n, nil
}
