// Package anthropic implements visionadapter.Client for the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"fmt"
	"strings"

	"github.com/photocap/photocap/pkg/visionadapter"
)

const (
	// DefaultBaseURL is the production Anthropic API endpoint.
	DefaultBaseURL = "https://api.anthropic.com"

	messagesPath = "/v1/messages"
)

var _ visionadapter.Client = (*Adapter)(nil)

// Adapter sends vision requests to the Anthropic Messages API.
type Adapter struct {
	visionadapter.Adapter
}

// New creates an Adapter configured for the Anthropic API.
// The baseURL should have no trailing slash; pass DefaultBaseURL for
// production use.
func New(baseURL, apiKey string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = visionadapter.Auth{
		Key:    apiKey,
		Header: "x-api-key",
	}
	a.Headers = map[string]string{
		"anthropic-version": "2023-06-01",
	}

	return a
}

// SendVisionRequest issues a single message-creation call carrying a base64
// JPEG image block and a text block, and returns the first text segment of
// the response content, trimmed of surrounding whitespace.
func (a *Adapter) SendVisionRequest(ctx context.Context, modelID, imageB64, prompt string) (string, error) {
	req := apiRequest{
		Model:     modelID,
		MaxTokens: visionadapter.MaxCaptionTokens,
		Messages: []apiMessage{{
			Role: "user",
			Content: []apiContent{
				{
					Type: "image",
					Source: &apiImageSource{
						Type:      "base64",
						MediaType: "image/jpeg",
						Data:      imageB64,
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, messagesPath, req, &resp); err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}

	return "", fmt.Errorf("anthropic: no text content in response")
}

// --- request types ---

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string       `json:"role"`
	Content []apiContent `json:"content"`
}

type apiContent struct {
	Type   string          `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *apiImageSource `json:"source,omitempty"`
}

type apiImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// --- response types ---

type apiResponse struct {
	Content    []apiContent `json:"content"`
	StopReason string       `json:"stop_reason"`
}
