package llm

import (
	"context"
	"time"

	"github.com/ppiankov/claimflow/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates a text completion for the request
	Complete(ctx context.Context, req CompleteRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompleteRequest contains the input for a single completion call
type CompleteRequest struct {
	// SystemPrompt frames the assistant's role; empty uses DefaultSystemPrompt
	SystemPrompt string

	// Prompt is the user-turn content
	Prompt string

	// Temperature controls sampling randomness
	Temperature float32

	// MaxTokens limits the response length (0 uses the configured default)
	MaxTokens int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "openrouter", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/OpenRouter
	APIKey string

	// BaseURL for custom endpoints (OpenRouter, Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout time.Duration

	// MaxTokens for response generation
	MaxTokens int

	// RequestsPerSecond rate-limits calls to the provider (0 = unlimited)
	RequestsPerSecond float64
	Burst             int
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:          "", // Disabled by default
		Timeout:           30 * time.Second,
		MaxTokens:         1000,
		RequestsPerSecond: 1,
		Burst:             2,
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	cfg := Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		MaxTokens:         mc.MaxTokens,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1000
	}
	return cfg
}

// DefaultSystemPrompt frames every request made on behalf of the workflow.
const DefaultSystemPrompt = `You are an AI assistant helping to process insurance claims.
Your role is to:
- extract structured information from text,
- check for inconsistencies,
- ask clear follow-up questions,
- and generate concise summaries for human claims handlers.
You MUST:
- be precise and conservative,
- never invent facts that are not clearly supported by the input,
- and follow the requested output format exactly (especially JSON).
If information is missing or unclear, explicitly mark it as null or "unknown" instead of guessing.`
