// Package llm talks to the vision models that read chart images.
package llm

import (
	"context"
	"fmt"

	"github.com/spherical/chart-extractor/internal/config"
	"github.com/spherical/chart-extractor/internal/domain"
)

// New builds the vision model selected by the configured provider.
func New(cfg config.ModelConfig) (domain.VisionModel, error) {
	if cfg.APIKey == "" {
		return nil, domain.ConfigError(fmt.Sprintf("no API key configured for provider %q", cfg.Provider), nil)
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicModel(cfg.APIKey, cfg.Model,
			WithBaseURL(cfg.BaseURL),
			WithMaxTokens(cfg.MaxTokens),
		), nil
	case config.ProviderOpenRouter:
		return NewOpenRouterModel(cfg.APIKey, cfg.Model,
			WithBaseURL(cfg.BaseURL),
			WithMaxTokens(cfg.MaxTokens),
		), nil
	default:
		return nil, domain.ConfigError(fmt.Sprintf("unknown model provider %q", cfg.Provider), nil)
	}
}

// options are shared by both providers.
type options struct {
	baseURL   string
	maxTokens int
}

// Option configures a vision model.
type Option func(*options)

// WithBaseURL overrides the provider endpoint. An empty URL keeps the default.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithMaxTokens caps the length of the model reply.
func WithMaxTokens(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{maxTokens: DefaultMaxTokens}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// DefaultMaxTokens matches the reply budget of a full multi-chart extraction.
const DefaultMaxTokens = 8192

// unavailable stands in for a model that could not be configured. Every call
// reports the configuration error, so services without a model still start.
type unavailable struct {
	err error
}

// Unavailable returns a VisionModel whose calls all fail with err.
func Unavailable(err error) domain.VisionModel {
	return unavailable{err: err}
}

func (u unavailable) Complete(ctx context.Context, imageData, mediaType, prompt string) (string, error) {
	return "", u.err
}

func (u unavailable) Name() string {
	return "unavailable"
}
