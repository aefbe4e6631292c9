package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"

	_ "modernc.org/sqlite"
)

// SQLiteSink persists audit records to a local SQLite database. Records
// are insert-only; there is no update path.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink creates the sink and runs its migration.
func NewSQLiteSink(db *sql.DB) (*SQLiteSink, error) {
	s := &SQLiteSink{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("audit: sqlite migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteSink) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS audit_records (
		record_id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		scenario_id TEXT NOT NULL,
		user_id TEXT,
		correlation_id TEXT,
		conflict_escalated INTEGER NOT NULL DEFAULT 0,
		conflict_reason TEXT,
		rationale TEXT NOT NULL,
		payload JSON NOT NULL,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_audit_scenario ON audit_records(scenario_id);`
	_, err := s.db.ExecContext(context.Background(), query)
	return err
}

// Append implements Sink.
func (s *SQLiteSink) Append(ctx context.Context, rec contracts.AuditRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("audit: marshal record: %w", err)
	}

	query := `
	INSERT INTO audit_records
		(record_id, event_type, scenario_id, user_id, correlation_id, conflict_escalated, conflict_reason, rationale, payload, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, query,
		uuid.New().String(), rec.EventType, rec.ScenarioID, rec.UserID, rec.CorrelationID,
		boolToInt(rec.ConflictEscalated), rec.ConflictReason, rec.Rationale, string(payload), rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("audit: sqlite insert: %w", err)
	}
	return nil
}

// ListByScenario returns the stored records for a scenario, oldest first.
func (s *SQLiteSink) ListByScenario(ctx context.Context, scenarioID string) ([]contracts.AuditRecord, error) {
	query := `SELECT payload FROM audit_records WHERE scenario_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, query, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("audit: sqlite query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []contracts.AuditRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var rec contracts.AuditRecord
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("audit: decode stored record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
