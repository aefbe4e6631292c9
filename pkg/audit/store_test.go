package audit_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

func record(scenarioID string) contracts.AuditRecord {
	return contracts.AuditRecord{
		Timestamp:          time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		EventType:          contracts.EventNegotiationDecision,
		ScenarioID:         scenarioID,
		UserID:             "analyst-1",
		SelectedStrategies: []contracts.StrategySummary{},
		NegotiationParameters: contracts.NegotiationParameters{
			CostWeight: 0.6, RiskWeight: 0.2, SustainabilityWeight: 0.2,
		},
		Rationale: "selected by weighted score",
	}
}

func TestStore_AppendAndGet(t *testing.T) {
	store := audit.NewStore()
	require.NoError(t, store.Append(context.Background(), record("scn-1")))
	require.Equal(t, 1, store.Len())

	entry := store.List(0)[0]
	assert.Equal(t, uint64(1), entry.Sequence)
	assert.Equal(t, "scn-1", entry.Record.ScenarioID)
	assert.NotEmpty(t, entry.PayloadHash)
	assert.NotEmpty(t, entry.EntryHash)

	got, err := store.Get(entry.EntryID)
	require.NoError(t, err)
	assert.Equal(t, entry, got)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, audit.ErrEntryNotFound)
}

func TestStore_ChainLinksEntries(t *testing.T) {
	store := audit.NewStore()
	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(context.Background(), record(fmt.Sprintf("scn-%d", i))))
	}

	entries := store.List(0)
	require.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].EntryHash, entries[i].PreviousHash,
			"entry %d must link to its predecessor", entries[i].Sequence)
	}
	require.NoError(t, store.VerifyChain())
}

func TestStore_VerifyChainDetectsTampering(t *testing.T) {
	store := audit.NewStore()
	require.NoError(t, store.Append(context.Background(), record("scn-1")))
	require.NoError(t, store.Append(context.Background(), record("scn-2")))

	// Mutate a stored payload behind the store's back.
	store.List(0)[0].Record.Rationale = "rewritten"

	err := store.VerifyChain()
	require.Error(t, err)
	assert.ErrorIs(t, err, audit.ErrChainBroken)
}

func TestStore_ListLimit(t *testing.T) {
	store := audit.NewStore()
	for i := 0; i < 4; i++ {
		require.NoError(t, store.Append(context.Background(), record(fmt.Sprintf("scn-%d", i))))
	}

	latest := store.List(2)
	require.Len(t, latest, 2)
	assert.Equal(t, "scn-2", latest[0].Record.ScenarioID)
	assert.Equal(t, "scn-3", latest[1].Record.ScenarioID)

	assert.Len(t, store.List(0), 4)
	assert.Len(t, store.List(100), 4)
}

func TestStore_ConcurrentAppends(t *testing.T) {
	store := audit.NewStore()
	const n = 50

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Append(context.Background(), record(fmt.Sprintf("scn-%d", i))))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, n, store.Len())
	require.NoError(t, store.VerifyChain())
}

func TestStore_HashIndependentOfKeyOrder(t *testing.T) {
	store := audit.NewStore()
	rec := record("scn-1")
	require.NoError(t, store.Append(context.Background(), rec))
	require.NoError(t, store.Append(context.Background(), rec))

	entries := store.List(0)
	assert.Equal(t, entries[0].PayloadHash, entries[1].PayloadHash,
		"identical records must canonicalize to the same payload hash")
	assert.NotEqual(t, entries[0].EntryHash, entries[1].EntryHash,
		"chain position must distinguish identical payloads")
}
