package api

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Request bodies are validated against JSON Schemas before decoding, so a
// malformed field yields a precise 400 instead of a silent zero value.

const negotiateSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["scenario_id", "impacts", "strategies"],
	"properties": {
		"scenario_id": {"type": "string", "minLength": 1},
		"user_id": {"type": "string"},
		"correlation_id": {"type": "string"},
		"impacts": {
			"type": "object",
			"properties": {
				"cost_impact": {"type": "number", "minimum": 0},
				"delivery_time_impact": {"type": "number", "minimum": 0},
				"inventory_impact": {"type": "number", "minimum": 0},
				"sustainability_impact": {
					"type": "object",
					"properties": {
						"carbon_footprint": {"type": "number", "minimum": 0},
						"emissions_by_route": {"type": "object", "additionalProperties": {"type": "number"}},
						"sustainability_score": {"type": "number", "minimum": 0, "maximum": 100}
					}
				}
			}
		},
		"strategies": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["strategy_id", "name", "tradeoffs"],
				"properties": {
					"strategy_id": {"type": "string", "minLength": 1},
					"name": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"cost_impact": {"type": "number", "minimum": 0},
					"risk_reduction": {"type": "number", "minimum": 0, "maximum": 1},
					"sustainability_impact": {"type": "number", "minimum": 0},
					"implementation_time": {"type": "number", "minimum": 0},
					"tradeoffs": {"type": "array", "minItems": 1, "items": {"type": "string"}}
				}
			}
		},
		"user_preferences": {
			"type": "object",
			"properties": {
				"prioritize_cost": {"type": "boolean"},
				"prioritize_risk": {"type": "boolean"},
				"prioritize_sustainability": {"type": "boolean"},
				"max_cost_impact": {"type": "number", "minimum": 0},
				"min_risk_reduction": {"type": "number", "minimum": 0, "maximum": 1},
				"max_sustainability_impact": {"type": "number", "minimum": 0}
			}
		}
	}
}`

const explainSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["scenario_id", "agent_contributions"],
	"properties": {
		"scenario_id": {"type": "string", "minLength": 1},
		"scenario": {"type": "object"},
		"impacts": {"type": "object"},
		"strategies": {"type": "array"},
		"agent_contributions": {
			"type": "array",
			"minItems": 1,
			"items": {
				"type": "object",
				"required": ["agent_name"],
				"properties": {
					"agent_name": {"type": "string", "minLength": 1},
					"contribution_type": {"type": "string"},
					"confidence": {"type": "number", "minimum": 0, "maximum": 1},
					"uncertainty_range": {
						"type": "object",
						"properties": {
							"lower": {"type": "number"},
							"upper": {"type": "number"},
							"confidence_level": {"type": "number", "minimum": 0, "maximum": 1}
						}
					}
				}
			}
		},
		"include_natural_language": {"type": "boolean"},
		"include_decision_tree": {"type": "boolean"},
		"include_uncertainty": {"type": "boolean"}
	}
}`

var (
	compiledNegotiateSchema = jsonschema.MustCompileString("negotiate.json", negotiateSchema)
	compiledExplainSchema   = jsonschema.MustCompileString("explain.json", explainSchema)
)

// validateBody checks raw JSON against a compiled schema.
func validateBody(schema *jsonschema.Schema, body []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return err
	}
	return nil
}
