package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spherical/chart-extractor/internal/domain"
)

const (
	openRouterURL = "https://openrouter.ai/api/v1/chat/completions"

	// DefaultOpenRouterModel is used when no model name is configured
	DefaultOpenRouterModel = "anthropic/claude-sonnet-4"
)

// OpenRouterModel streams chat completions from OpenRouter
type OpenRouterModel struct {
	apiKey     string
	model      string
	url        string
	maxTokens  int
	httpClient *http.Client
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Stream    bool          `json:"stream"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Choices []chatChoice `json:"choices"`
	Error   *chatError   `json:"error,omitempty"`
}

type chatChoice struct {
	Delta        chatDelta `json:"delta"`
	FinishReason string    `json:"finish_reason"`
}

type chatDelta struct {
	Content string `json:"content"`
	Role    string `json:"role"`
}

type chatError struct {
	Message string `json:"message"`
}

// NewOpenRouterModel creates an OpenRouter client
func NewOpenRouterModel(apiKey, model string, opts ...Option) *OpenRouterModel {
	if model == "" {
		model = DefaultOpenRouterModel
	}
	o := buildOptions(opts)

	url := openRouterURL
	if o.baseURL != "" {
		url = strings.TrimSuffix(o.baseURL, "/") + "/chat/completions"
	}

	return &OpenRouterModel{
		apiKey:     apiKey,
		model:      model,
		url:        url,
		maxTokens:  o.maxTokens,
		httpClient: &http.Client{},
	}
}

// Name returns the model identifier
func (m *OpenRouterModel) Name() string {
	return m.model
}

// Complete sends the image as a data URL and accumulates the streamed reply
func (m *OpenRouterModel) Complete(ctx context.Context, imageData, mediaType, prompt string) (string, error) {
	body, err := json.Marshal(m.buildRequest(imageData, mediaType, prompt))
	if err != nil {
		return "", domain.APIError("Failed to marshal request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(body))
	if err != nil {
		return "", domain.APIError("Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("HTTP-Referer", "https://github.com/spherical/chart-extractor")
	req.Header.Set("X-Title", "Chart Data Extractor")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", domain.APIError("Failed to send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", domain.APIError(fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(bodyBytes)), nil)
	}

	text, err := NewStreamParser(resp.Body).Collect()
	if err != nil {
		return "", domain.APIError("Failed to parse stream", err)
	}
	return text, nil
}

func (m *OpenRouterModel) buildRequest(imageData, mediaType, prompt string) *chatRequest {
	if mediaType == "" {
		mediaType = domain.DefaultMediaType
	}
	return &chatRequest{
		Model: m.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{
					Type:     "image_url",
					ImageURL: &imageURL{URL: "data:" + mediaType + ";base64," + imageData},
				},
				{
					Type: "text",
					Text: prompt,
				},
			},
		}},
		MaxTokens: m.maxTokens,
		Stream:    true,
	}
}
