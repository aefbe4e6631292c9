package explain

import (
	"github.com/hulyak/omnitrack-ai-sub008/pkg/contracts"
)

// BaselineConfidence applies when no contribution carries a confidence value.
const BaselineConfidence = 0.80

// Band is a fixed relative uncertainty band for one impact metric.
type Band struct {
	Metric     string  `yaml:"metric" json:"metric"`
	Relative   float64 `yaml:"relative" json:"relative"`     // e.g. 0.20 for +/-20%
	Confidence float64 `yaml:"confidence" json:"confidence"` // in (0,1]
}

// DefaultBands are the documented relative bands per impact metric.
var DefaultBands = []Band{
	{Metric: "cost_impact", Relative: 0.20, Confidence: 0.90},
	{Metric: "delivery_time_impact", Relative: 0.15, Confidence: 0.85},
	{Metric: "inventory_impact", Relative: 0.25, Confidence: 0.80},
	{Metric: "carbon_footprint", Relative: 0.30, Confidence: 0.75},
}

// defaultAssumptions and defaultCaveats are fixed boilerplate. Their
// presence (not wording) is a load-bearing invariant for downstream
// consumers; they must never be empty.
var defaultAssumptions = []string{
	"Impact figures are simulation outputs, not observed actuals.",
	"Candidate strategies are assumed implementable within their stated implementation time.",
	"Upstream agent confidences are taken at face value.",
}

var defaultCaveats = []string{
	"Estimates lose validity as the disruption evolves; re-run the pipeline on material changes.",
	"Uncertainty bands are fixed per metric class, not fitted to this scenario.",
	"Strategies outside the candidate pool were never evaluated.",
}

// Quantify produces the uncertainty component. Prediction ranges apply the
// fixed relative bands to each impact metric present; overall confidence is
// the mean of supplied contribution confidences, else the baseline.
// baseline <= 0 selects BaselineConfidence.
func Quantify(impacts *contracts.ImpactAnalysis, contribs []contracts.AgentContribution, bands []Band, baseline float64) *contracts.UncertaintyQuantification {
	if len(bands) == 0 {
		bands = DefaultBands
	}
	if baseline <= 0 {
		baseline = BaselineConfidence
	}

	q := &contracts.UncertaintyQuantification{
		OverallConfidence:     overallConfidence(contribs, baseline),
		Assumptions:           append([]string(nil), defaultAssumptions...),
		LimitationsAndCaveats: append([]string(nil), defaultCaveats...),
	}

	if impacts != nil {
		for _, b := range bands {
			v, ok := metricValue(impacts, b.Metric)
			if !ok {
				continue
			}
			q.PredictionRanges = append(q.PredictionRanges, contracts.PredictionRange{
				Metric:          b.Metric,
				PointEstimate:   v,
				LowerBound:      v * (1 - b.Relative),
				UpperBound:      v * (1 + b.Relative),
				ConfidenceLevel: b.Confidence,
			})
		}
	}
	return q
}

func metricValue(impacts *contracts.ImpactAnalysis, metric string) (float64, bool) {
	switch metric {
	case "cost_impact":
		return impacts.CostImpact, true
	case "delivery_time_impact":
		return impacts.DeliveryTimeImpact, true
	case "inventory_impact":
		return impacts.InventoryImpact, true
	case "carbon_footprint":
		if impacts.Sustainability == nil {
			return 0, false
		}
		return impacts.Sustainability.CarbonFootprint, true
	}
	return 0, false
}

func overallConfidence(contribs []contracts.AgentContribution, baseline float64) float64 {
	var sum float64
	var n int
	for _, c := range contribs {
		if c.Confidence != nil {
			sum += *c.Confidence
			n++
		}
	}
	if n == 0 {
		return baseline
	}
	return sum / float64(n)
}
