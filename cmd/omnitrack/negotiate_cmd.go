package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/audit"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/config"
	"github.com/hulyak/omnitrack-ai-sub008/pkg/negotiation"
)

// runNegotiateCmd runs one negotiation from a JSON request file and prints
// the result plus the resulting audit record. Useful for ops dry-runs
// without a running server.
func runNegotiateCmd(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("negotiate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "path to a JSON negotiation request")
	boost := fs.Float64("boost", 0, "priority boost override (0 = profile default)")
	profilePath := fs.String("profile", "", "engine profile YAML (optional)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *file == "" {
		_, _ = fmt.Fprintln(stderr, "negotiate: -file is required")
		return 2
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "negotiate: read %s: %v\n", *file, err)
		return 1
	}

	var req negotiation.Request
	if err := json.Unmarshal(data, &req); err != nil {
		_, _ = fmt.Fprintf(stderr, "negotiate: parse request: %v\n", err)
		return 1
	}

	effectiveBoost := *boost
	if effectiveBoost <= 0 {
		profile := config.DefaultProfile()
		if *profilePath != "" {
			profile, err = config.LoadProfile(*profilePath)
			if err != nil {
				_, _ = fmt.Fprintf(stderr, "negotiate: %v\n", err)
				return 1
			}
		}
		effectiveBoost = profile.PriorityBoost
	}

	chain := audit.NewStore()
	orchestrator := negotiation.NewOrchestrator(
		audit.NewEmitter(chain),
		negotiation.WithPriorityBoost(effectiveBoost),
	)

	result, err := orchestrator.Negotiate(context.Background(), req)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "negotiate: %v\n", err)
		return 1
	}

	out := struct {
		Result any `json:"result"`
		Audit  any `json:"audit"`
	}{Result: result, Audit: chain.List(0)}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		_, _ = fmt.Fprintf(stderr, "negotiate: encode output: %v\n", err)
		return 1
	}
	return 0
}
