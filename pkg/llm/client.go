// Package llm wraps the external reasoning service behind a minimal client
// interface. The engine makes at most one call per explanation request; any
// failure falls through to the rule-based summary, so implementations here
// never retry internally.
package llm

import "context"

// Message is one chat turn sent to the reasoning service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client produces free text for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// SamplingOptions tune the generation; zero values mean provider defaults.
type SamplingOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	Seed        int64   `json:"seed"`
}
