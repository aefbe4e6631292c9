package explain

import (
	"fmt"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// BuildAttributions merges two attribution sources without duplication:
// one entry per input contribution (component id "contribution-{index}"),
// plus one entry per tree node carrying a non-empty agent attribution,
// keyed by (agentName, nodeID) so the same node is never added twice.
// Every distinct agent name in the contributions appears in the output.
func BuildAttributions(contribs []contracts.AgentContribution, tree *contracts.DecisionTree) []contracts.AgentAttribution {
	out := make([]contracts.AgentAttribution, 0, len(contribs))

	for i, c := range contribs {
		out = append(out, contracts.AgentAttribution{
			ComponentID: fmt.Sprintf("contribution-%d", i),
			AgentName:   c.AgentName,
			Role:        c.ContributionType,
			Confidence:  c.Confidence,
		})
	}

	if tree == nil {
		return out
	}

	seen := make(map[[2]string]struct{})
	for _, n := range tree.Nodes {
		if n.AgentAttribution == "" {
			continue
		}
		key := [2]string{n.AgentAttribution, n.NodeID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, contracts.AgentAttribution{
			ComponentID: "node-" + n.NodeID,
			AgentName:   n.AgentAttribution,
			Role:        "decision-tree:" + string(n.Type),
			Confidence:  n.Confidence,
		})
	}
	return out
}
