// Package openai implements visionadapter.Client for the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/photocap/photocap/pkg/visionadapter"
)

const (
	// DefaultBaseURL is the production OpenAI API endpoint.
	DefaultBaseURL = "https://api.openai.com"

	completionsPath = "/v1/chat/completions"
)

var _ visionadapter.Client = (*Adapter)(nil)

// Adapter sends vision requests to the OpenAI Chat Completions API.
type Adapter struct {
	visionadapter.Adapter
}

// New creates an Adapter configured for the OpenAI API.
// The baseURL should have no trailing slash; pass DefaultBaseURL for
// production use.
func New(baseURL, apiKey string) *Adapter {
	a := &Adapter{}
	a.BaseURL = baseURL
	a.Auth = visionadapter.Auth{Key: apiKey}

	return a
}

// SendVisionRequest issues a single chat-completion call carrying a
// data-URI-encoded JPEG image block and a text block, and returns the first
// choice's message content, trimmed of surrounding whitespace.
func (a *Adapter) SendVisionRequest(ctx context.Context, modelID, imageB64, prompt string) (string, error) {
	req := apiRequest{
		Model:     modelID,
		MaxTokens: visionadapter.MaxCaptionTokens,
		Messages: []apiMessage{{
			Role: "user",
			Content: []apiContent{
				{
					Type: "image_url",
					ImageURL: &apiImageURL{
						URL: "data:image/jpeg;base64," + imageB64,
					},
				},
				{Type: "text", Text: prompt},
			},
		}},
	}

	var resp apiResponse
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return "", fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: empty choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
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
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *apiImageURL `json:"image_url,omitempty"`
}

type apiImageURL struct {
	URL string `json:"url"`
}

// --- response types ---

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
}

type apiChoice struct {
	Message      apiRespMessage `json:"message"`
	FinishReason string         `json:"finish_reason"`
}

type apiRespMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
