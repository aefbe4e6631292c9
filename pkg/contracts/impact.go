// Package contracts defines the shared data model of the negotiation and
// explainability engine: disruption impacts, mitigation strategies,
// stakeholder preferences, negotiation outcomes, explanations, and audit
// records. All types here are plain values exchanged over JSON; the engine
// never mutates inputs it receives.
package contracts

// SustainabilityImpact captures the environmental dimension of a predicted
// disruption impact.
type SustainabilityImpact struct {
	// CarbonFootprint in kgCO2, never negative.
	CarbonFootprint float64 `json:"carbon_footprint"`
	// EmissionsByRoute maps a route id to its kgCO2 contribution.
	EmissionsByRoute map[string]float64 `json:"emissions_by_route,omitempty"`
	// SustainabilityScore is a 0-100 rating produced upstream.
	SustainabilityScore float64 `json:"sustainability_score"`
}

// ImpactAnalysis is the predicted impact of a disruption, produced by the
// upstream impact-analysis collaborator. Immutable input.
type ImpactAnalysis struct {
	// CostImpact in currency units.
	CostImpact float64 `json:"cost_impact"`
	// DeliveryTimeImpact in hours.
	DeliveryTimeImpact float64 `json:"delivery_time_impact"`
	// InventoryImpact in stock units.
	InventoryImpact float64 `json:"inventory_impact"`

	Sustainability *SustainabilityImpact `json:"sustainability_impact,omitempty"`
}

// Scenario describes the disruption under analysis. The engine only reads
// it to label explanations and prompts; all fields are upstream-owned.
type Scenario struct {
	ScenarioID     string  `json:"scenario_id"`
	Description    string  `json:"description,omitempty"`
	DisruptionType string  `json:"disruption_type,omitempty"`
	Severity       float64 `json:"severity,omitempty"`
}
