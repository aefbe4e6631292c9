package audit_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"

	_ "modernc.org/sqlite"
)

func newTestSQLiteSink(t *testing.T) *audit.SQLiteSink {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sink, err := audit.NewSQLiteSink(db)
	require.NoError(t, err)
	return sink
}

func TestSQLiteSink_AppendAndList(t *testing.T) {
	sink := newTestSQLiteSink(t)
	ctx := context.Background()

	require.NoError(t, sink.Append(ctx, record("scn-1")))
	require.NoError(t, sink.Append(ctx, record("scn-1")))
	require.NoError(t, sink.Append(ctx, record("scn-2")))

	got, err := sink.ListByScenario(ctx, "scn-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, rec := range got {
		assert.Equal(t, "scn-1", rec.ScenarioID)
		assert.Equal(t, "selected by weighted score", rec.Rationale)
		assert.InDelta(t, 0.6, rec.NegotiationParameters.CostWeight, 1e-9)
	}
}

func TestSQLiteSink_ListUnknownScenario(t *testing.T) {
	sink := newTestSQLiteSink(t)

	got, err := sink.ListByScenario(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteSink_EscalationRoundTrip(t *testing.T) {
	sink := newTestSQLiteSink(t)
	ctx := context.Background()

	rec := record("scn-3")
	rec.ConflictEscalated = true
	rec.ConflictReason = "no candidate strategy satisfies all hard thresholds"
	require.NoError(t, sink.Append(ctx, rec))

	got, err := sink.ListByScenario(ctx, "scn-3")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ConflictEscalated)
	assert.Equal(t, rec.ConflictReason, got[0].ConflictReason)
}
