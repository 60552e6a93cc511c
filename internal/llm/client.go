package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrRateLimited marks a provider quota/rate error. It is recovered inside
// Generate and never surfaces to callers.
var ErrRateLimited = errors.New("llm: rate limited")

// Format constants for GenerateRequest.Format
const (
	FormatText = "text"
	FormatJSON = "json"
)

// GenerateRequest describes one call to the generation collaborator.
type GenerateRequest struct {
	Prompt      string
	Format      string // FormatText or FormatJSON
	Temperature float32

	// Fallback is returned for text requests when the provider is
	// unavailable or rate limited.
	Fallback string

	// Source is raw text fed to the rule-based extractor when a JSON
	// request has to degrade.
	Source string
}

// GenerateResult is the outcome of a Generate call. Text is set for text
// requests, Fields for JSON requests. Degraded reports that a fallback
// path produced the result; Reason says why, for the reasoning trace.
type GenerateResult struct {
	Text     string
	Fields   map[string]string
	Degraded bool
	Reason   string
}

// Client wraps an optional Provider with deterministic offline fallbacks
// and a rate limiter in front of provider calls.
type Client struct {
	provider  Provider
	limiter   *rate.Limiter
	extractor FallbackExtractor
	config    Config
}

// NewClient creates a client for the configured provider. A nil provider
// (empty Config.Provider) yields a purely offline client.
func NewClient(config Config) (*Client, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}

	return &Client{
		provider: provider,
		limiter:  limiter,
		config:   config,
	}, nil
}

// NewClientWithProvider wraps an existing provider. Used by tests and by
// callers that construct providers themselves.
func NewClientWithProvider(provider Provider, config Config) *Client {
	var limiter *rate.Limiter
	if config.RequestsPerSecond > 0 {
		burst := config.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), burst)
	}
	return &Client{provider: provider, limiter: limiter, config: config}
}

// Offline reports whether the client has no remote provider configured.
func (c *Client) Offline() bool {
	return c.provider == nil
}

// Generate calls the provider, degrading to the rule-based extractor or
// the supplied fallback text on quota/rate errors and parse failures.
// Errors unrelated to rate limiting propagate to the caller.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	if c.provider == nil {
		return c.offlineResult(req, "no LLM provider configured"), nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return GenerateResult{}, err
		}
	}

	text, err := c.provider.Complete(ctx, CompleteRequest{
		Prompt:      req.Prompt,
		Temperature: req.Temperature,
	})
	if err != nil {
		if isRateLimited(err) {
			return c.offlineResult(req, fmt.Sprintf("%s rate limited", c.provider.Name())), nil
		}
		return GenerateResult{}, err
	}

	if req.Format == FormatJSON {
		fields, ok := parseFieldJSON(text)
		if !ok {
			result := c.offlineResult(req, "LLM returned unparsable JSON")
			return result, nil
		}
		return GenerateResult{Fields: fields}, nil
	}

	return GenerateResult{Text: text}, nil
}

// offlineResult produces the deterministic degraded-path result.
func (c *Client) offlineResult(req GenerateRequest, reason string) GenerateResult {
	if req.Format == FormatJSON {
		return GenerateResult{
			Fields:   c.extractor.Extract(req.Source),
			Degraded: true,
			Reason:   reason,
		}
	}
	text := req.Fallback
	if text == "" {
		text = offlineText(req.Prompt)
	}
	return GenerateResult{Text: text, Degraded: true, Reason: reason}
}

// offlineText derives a placeholder response from the prompt's last line.
func offlineText(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	return "Offline response: " + truncateRunes(lines[len(lines)-1], 200)
}

// truncateRunes shortens s to at most n runes, never splitting a
// multi-byte character.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// parseFieldJSON decodes a flat JSON object of field values, tolerating a
// markdown code fence around the object. Null and empty values are
// dropped.
func parseFieldJSON(text string) (map[string]string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}

	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			if v == "" || v == "null" {
				continue
			}
			fields[key] = v
		case float64:
			fields[key] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
		case bool:
			fields[key] = fmt.Sprintf("%t", v)
		}
	}
	return fields, true
}

// isRateLimited classifies provider errors that must degrade rather than
// propagate.
func isRateLimited(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == 429 {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "rate-limit")
}
