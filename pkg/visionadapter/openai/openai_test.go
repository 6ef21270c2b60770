package openai_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/photocap/photocap/pkg/visionadapter"
	"github.com/photocap/photocap/pkg/visionadapter/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *openai.Adapter) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	a := openai.New(srv.URL, "test-key")

	return srv, a
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func readBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var req map[string]any
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}

	return req
}

func TestSendVisionRequest(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		req := readBody(t, r)

		assert.Equal(t, "gpt-4o-mini", req["model"])
		assert.Equal(t, float64(300), req["max_tokens"])

		msgs, ok := req["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 1)

		msg := msgs[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])

		blocks := msg["content"].([]any)
		require.Len(t, blocks, 2)

		img := blocks[0].(map[string]any)
		assert.Equal(t, "image_url", img["type"])

		imageURL := img["image_url"].(map[string]any)
		url := imageURL["url"].(string)
		assert.True(t, strings.HasPrefix(url, "data:image/jpeg;base64,"))
		assert.Equal(t, "data:image/jpeg;base64,aW1hZ2VieXRlcw==", url)

		text := blocks[1].(map[string]any)
		assert.Equal(t, "text", text["type"])
		assert.Equal(t, "Write a caption.", text["text"])

		writeJSON(t, w, map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": "\nGolden light over the old town.\n"},
					"finish_reason": "stop",
				},
			},
		})
	})

	got, err := adapter.SendVisionRequest(context.Background(), "gpt-4o-mini", "aW1hZ2VieXRlcw==", "Write a caption.")
	require.NoError(t, err)
	assert.Equal(t, "Golden light over the old town.", got)
}

func TestSendVisionRequest_EmptyChoices(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"choices": []map[string]any{}})
	})

	_, err := adapter.SendVisionRequest(context.Background(), "gpt-4o", "aW1n", "prompt")
	assert.ErrorContains(t, err, "empty choices")
}

func TestSendVisionRequest_APIErrorSurfaces(t *testing.T) {
	_, adapter := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
	})

	_, err := adapter.SendVisionRequest(context.Background(), "gpt-4o", "aW1n", "prompt")
	require.Error(t, err)

	var apiErr *visionadapter.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Incorrect API key")
}
