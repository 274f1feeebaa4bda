package llm

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/spherical/chart-extractor/internal/domain"
)

// DefaultAnthropicModel is used when no model name is configured
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicModel sends one image and one prompt to the Messages API
type AnthropicModel struct {
	client    anthropic.Client
	model     string
	maxTokens int
}

// NewAnthropicModel creates a Messages API client. The SDK's built-in retries
// are turned off: a failed call is reported once.
func NewAnthropicModel(apiKey, model string, opts ...Option) *AnthropicModel {
	if model == "" {
		model = DefaultAnthropicModel
	}
	o := buildOptions(opts)

	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if o.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(o.baseURL))
	}

	return &AnthropicModel{
		client:    anthropic.NewClient(reqOpts...),
		model:     model,
		maxTokens: o.maxTokens,
	}
}

// Name returns the model identifier
func (m *AnthropicModel) Name() string {
	return m.model
}

// Complete returns the text of the first text block in the reply, or "" when
// the reply has none.
func (m *AnthropicModel) Complete(ctx context.Context, imageData, mediaType, prompt string) (string, error) {
	message, err := m.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(m.model),
		MaxTokens: int64(m.maxTokens),
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewImageBlockBase64(mediaType, imageData),
					anthropic.NewTextBlock(prompt),
				},
			},
		},
	})
	if err != nil {
		return "", domain.APIError("Anthropic request failed", err)
	}

	for _, block := range message.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			return b.Text, nil
		}
	}
	return "", nil
}
