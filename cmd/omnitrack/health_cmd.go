package main

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/config"
)

// runHealthCmd checks a locally running server.
func runHealthCmd(stdout, stderr io.Writer) int {
	cfg := config.Load()
	url := fmt.Sprintf("http://localhost:%s/health", cfg.Port)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "health: %v\n", err)
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = fmt.Fprintf(stderr, "health: status %d\n", resp.StatusCode)
		return 1
	}
	_, _ = fmt.Fprintln(stdout, "ok")
	return 0
}
