// Package content talks to the hosted text-generation APIs used to write post
// bodies and falls through them in priority order.
package content

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Generator produces article text for a prompt.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

var (
	// ErrNoKey means the provider has no API key configured.
	ErrNoKey = errors.New("api key not set")
	// ErrAllFailed is returned by Chain when no provider produced text.
	ErrAllFailed = errors.New("all content providers failed")
	// ErrEmpty means the provider answered 200 with no usable text.
	ErrEmpty = errors.New("empty response")
)

// Result is the text produced by a chain and the provider that produced it.
type Result struct {
	Text     string
	Provider string
}

// Chain tries each generator in order; the first success wins. There are no
// retries.
type Chain struct {
	generators []Generator
}

func NewChain(generators ...Generator) *Chain {
	return &Chain{generators: generators}
}

// Names lists the generators in priority order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.generators))
	for i, g := range c.generators {
		names[i] = g.Name()
	}
	return names
}

func (c *Chain) Generate(ctx context.Context, prompt string) (*Result, error) {
	var lastErr error
	for _, g := range c.generators {
		text, err := g.Generate(ctx, prompt)
		if errors.Is(err, ErrNoKey) {
			slog.Debug("content provider skipped", "provider", g.Name())
			lastErr = err
			continue
		}
		if err != nil {
			slog.Warn("content provider failed", "provider", g.Name(), "error", err)
			lastErr = err
			continue
		}
		slog.Info("content generated", "provider", g.Name(), "chars", len(text))
		return &Result{Text: text, Provider: g.Name()}, nil
	}
	if lastErr == nil {
		return nil, ErrAllFailed
	}
	return nil, fmt.Errorf("%w: %w", ErrAllFailed, lastErr)
}

// envKeys lists the variables each provider reads its key from, first set wins.
var envKeys = map[string][]string{
	"gemini":      {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	"anthropic":   {"ANTHROPIC_API_KEY"},
	"cohere":      {"COHERE_API_KEY"},
	"huggingface": {"HUGGINGFACE_API_KEY"},
	"openai":      {"OPENAI_API_KEY"},
}

// EnvKeys returns the environment variables consulted for provider.
func EnvKeys(provider string) []string {
	return envKeys[provider]
}

func keyFromEnv(provider string) string {
	for _, k := range envKeys[provider] {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// New constructs a provider by name with its key read from the environment.
// A missing key is not an error here; the provider reports ErrNoKey when used.
func New(name string, timeout time.Duration) (Generator, error) {
	key := keyFromEnv(name)
	switch name {
	case "gemini":
		return NewGemini(key, timeout), nil
	case "anthropic":
		return NewAnthropic(key, timeout), nil
	case "cohere":
		return NewCohere(key, timeout), nil
	case "huggingface":
		return NewHuggingFace(key, timeout), nil
	case "openai":
		return NewOpenAI(key, timeout), nil
	default:
		return nil, fmt.Errorf("unknown content provider %q (available: gemini, anthropic, cohere, huggingface, openai)", name)
	}
}

// FromPriority builds a chain following the configured provider order.
func FromPriority(priority []string, timeout time.Duration) (*Chain, error) {
	var gens []Generator
	for _, name := range priority {
		g, err := New(name, timeout)
		if err != nil {
			return nil, err
		}
		gens = append(gens, g)
	}
	return NewChain(gens...), nil
}

// postJSON sends body to url and returns the raw response. Non-200 answers
// become "<label> API error (status N): body".
func postJSON(ctx context.Context, client *http.Client, label, url string, headers map[string]string, body any) ([]byte, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error (status %d): %s", label, resp.StatusCode, truncate(string(respBody), 300))
	}
	return respBody, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func clean(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmpty
	}
	return text, nil
}
