package negotiation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// selectionSize is the number of strategies every successful negotiation
// returns.
const selectionSize = 3

// ErrInsufficientCandidates is returned when fewer than three distinct
// strategy candidates are supplied. The engine cannot manufacture
// strategies, so this is a caller error, not a retryable condition.
var ErrInsufficientCandidates = errors.New("negotiation: at least 3 distinct strategy candidates required")

// Dedupe collapses candidates sharing a (normalized) strategy id, keeping
// the first occurrence. Input order is otherwise preserved.
func Dedupe(candidates []contracts.MitigationStrategy) []contracts.MitigationStrategy {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]contracts.MitigationStrategy, 0, len(candidates))
	for _, c := range candidates {
		id := contracts.NormalizeID(c.StrategyID)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Select scores the candidate pool under the resolved preference weights
// and returns the top three distinct strategies. Pure: safe for concurrent
// use with shared read-only inputs. Determinism: ties are broken by lower
// cost impact, then by strategy id ascending.
func Select(candidates []contracts.MitigationStrategy, prefs contracts.UserPreferences, boost float64) ([]contracts.MitigationStrategy, contracts.NegotiationParameters, error) {
	pool := Dedupe(candidates)
	if len(pool) < selectionSize {
		return nil, contracts.NegotiationParameters{}, fmt.Errorf("%w: got %d", ErrInsufficientCandidates, len(pool))
	}

	weights := DeriveWeights(prefs, boost)
	stats := computePoolStats(pool)

	type scored struct {
		strategy contracts.MitigationStrategy
		score    float64
	}
	ranked := make([]scored, len(pool))
	for i, s := range pool {
		ranked[i] = scored{strategy: s, score: score(s, stats, weights)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.strategy.CostImpact != b.strategy.CostImpact {
			return a.strategy.CostImpact < b.strategy.CostImpact
		}
		return a.strategy.StrategyID < b.strategy.StrategyID
	})

	top := make([]contracts.MitigationStrategy, selectionSize)
	for i := range top {
		top[i] = ranked[i].strategy
	}
	return top, weights, nil
}
