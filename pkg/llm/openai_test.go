package llm_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hulyak/omnitrack-ai-sub008/pkg/llm"
)

func completionServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return ts
}

func TestOpenAIClient_Complete(t *testing.T) {
	var gotAuth, gotModel string
	var gotMessages []llm.Message

	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var body struct {
			Model    string        `json:"model"`
			Messages []llm.Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel = body.Model
		gotMessages = body.Messages

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "The reroute avoids the closed port."}},
			},
		})
	})

	client := llm.NewOpenAIClient(ts.URL, "test-key", "test-model", time.Second)
	text, err := client.Complete(context.Background(), "Summarize the disruption.")
	require.NoError(t, err)
	assert.Equal(t, "The reroute avoids the closed port.", text)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "test-model", gotModel)
	require.Len(t, gotMessages, 2)
	assert.Equal(t, "system", gotMessages[0].Role)
	assert.Equal(t, "user", gotMessages[1].Role)
	assert.Equal(t, "Summarize the disruption.", gotMessages[1].Content)
}

func TestOpenAIClient_NoAuthHeaderWithoutKey(t *testing.T) {
	var gotAuth string
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	})

	client := llm.NewOpenAIClient(ts.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), "p")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestOpenAIClient_NonOKStatus(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	client := llm.NewOpenAIClient(ts.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestOpenAIClient_EmptyChoices(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})

	client := llm.NewOpenAIClient(ts.URL, "", "m", time.Second)
	_, err := client.Complete(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}

func TestOpenAIClient_ContextCancellation(t *testing.T) {
	ts := completionServer(t, func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server starts its background connection
		// read; otherwise r.Context() is never canceled on client
		// disconnect and ts.Close deadlocks in cleanup.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	})

	client := llm.NewOpenAIClient(ts.URL, "", "m", time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Complete(ctx, "p")
	assert.Error(t, err)
}
