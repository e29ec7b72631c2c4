package content

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gemini calls the generateContent endpoint. The key travels in the
// x-goog-api-key header so it never appears in a request URL or its errors.
type Gemini struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

func NewGemini(apiKey string, timeout time.Duration) *Gemini {
	return &Gemini{
		apiKey:  apiKey,
		BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		Model:   "gemini-1.5-flash",
		client:  &http.Client{Timeout: timeout},
	}
}

func (g *Gemini) Name() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		TopK            int     `json:"topK"`
		TopP            float64 `json:"topP"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNoKey
	}
	var req geminiRequest
	req.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	req.GenerationConfig.Temperature = 0.7
	req.GenerationConfig.TopK = 40
	req.GenerationConfig.TopP = 0.95
	req.GenerationConfig.MaxOutputTokens = 2048

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", g.BaseURL, g.Model)
	body, err := postJSON(ctx, g.client, "Gemini", endpoint, map[string]string{"x-goog-api-key": g.apiKey}, req)
	if err != nil {
		return "", err
	}
	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Gemini response: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmpty
	}
	return clean(resp.Candidates[0].Content.Parts[0].Text)
}

// Anthropic calls the messages API.
type Anthropic struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

func NewAnthropic(apiKey string, timeout time.Duration) *Anthropic {
	return &Anthropic{
		apiKey:  apiKey,
		BaseURL: "https://api.anthropic.com/v1/messages",
		Model:   "claude-3-haiku-20240307",
		client:  &http.Client{Timeout: timeout},
	}
}

func (a *Anthropic) Name() string { return "anthropic" }

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	if a.apiKey == "" {
		return "", ErrNoKey
	}
	req := anthropicRequest{
		Model:     a.Model,
		MaxTokens: 2000,
		Messages:  []anthropicMessage{{Role: "user", Content: prompt}},
	}
	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}
	body, err := postJSON(ctx, a.client, "Anthropic", a.BaseURL, headers, req)
	if err != nil {
		return "", err
	}
	var resp anthropicResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Anthropic response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", ErrEmpty
	}
	return clean(resp.Content[0].Text)
}

// Cohere calls the legacy generate endpoint.
type Cohere struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

func NewCohere(apiKey string, timeout time.Duration) *Cohere {
	return &Cohere{
		apiKey:  apiKey,
		BaseURL: "https://api.cohere.ai/v1/generate",
		Model:   "command",
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *Cohere) Name() string { return "cohere" }

type cohereRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type cohereResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
}

func (c *Cohere) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoKey
	}
	req := cohereRequest{Model: c.Model, Prompt: prompt, MaxTokens: 2000, Temperature: 0.7}
	body, err := postJSON(ctx, c.client, "Cohere", c.BaseURL, map[string]string{"Authorization": "Bearer " + c.apiKey}, req)
	if err != nil {
		return "", err
	}
	var resp cohereResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Cohere response: %w", err)
	}
	if len(resp.Generations) == 0 {
		return "", ErrEmpty
	}
	return clean(resp.Generations[0].Text)
}

// HuggingFace calls the hosted inference API for a text model.
type HuggingFace struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

func NewHuggingFace(apiKey string, timeout time.Duration) *HuggingFace {
	return &HuggingFace{
		apiKey:  apiKey,
		BaseURL: "https://api-inference.huggingface.co/models",
		Model:   "microsoft/DialoGPT-large",
		client:  &http.Client{Timeout: timeout},
	}
}

func (h *HuggingFace) Name() string { return "huggingface" }

type huggingFaceRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxLength   int     `json:"max_length"`
		Temperature float64 `json:"temperature"`
	} `json:"parameters"`
}

func (h *HuggingFace) Generate(ctx context.Context, prompt string) (string, error) {
	if h.apiKey == "" {
		return "", ErrNoKey
	}
	var req huggingFaceRequest
	req.Inputs = prompt
	req.Parameters.MaxLength = 800
	req.Parameters.Temperature = 0.7

	body, err := postJSON(ctx, h.client, "HuggingFace", h.BaseURL+"/"+h.Model, map[string]string{"Authorization": "Bearer " + h.apiKey}, req)
	if err != nil {
		return "", err
	}
	var resp []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse HuggingFace response: %w", err)
	}
	if len(resp) == 0 {
		return "", ErrEmpty
	}
	return clean(resp[0].GeneratedText)
}

// OpenAI calls chat completions. Not in the default priority list.
type OpenAI struct {
	apiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

func NewOpenAI(apiKey string, timeout time.Duration) *OpenAI {
	return &OpenAI{
		apiKey:  apiKey,
		BaseURL: "https://api.openai.com/v1/chat/completions",
		Model:   "gpt-4o-mini",
		client:  &http.Client{Timeout: timeout},
	}
}

func (o *OpenAI) Name() string { return "openai" }

type openAIRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if o.apiKey == "" {
		return "", ErrNoKey
	}
	req := openAIRequest{
		Model:       o.Model,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
		MaxTokens:   2000,
		Temperature: 0.7,
	}
	body, err := postJSON(ctx, o.client, "OpenAI", o.BaseURL, map[string]string{"Authorization": "Bearer " + o.apiKey}, req)
	if err != nil {
		return "", err
	}
	var resp openAIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmpty
	}
	return clean(resp.Choices[0].Message.Content)
}
