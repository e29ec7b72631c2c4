package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/astroaura/astroblog/internal/astro"
)

func TestGeminiRequestShape(t *testing.T) {
	var gotKey, gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		if r.URL.RawQuery != "" {
			t.Errorf("query = %q, want none", r.URL.RawQuery)
		}
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  The stars align.  "}]}}]}`))
	}))
	defer srv.Close()

	g := NewGemini("gkey", 5*time.Second)
	g.BaseURL = srv.URL
	text, err := g.Generate(context.Background(), "write")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "The stars align." {
		t.Errorf("text = %q", text)
	}
	if gotKey != "gkey" {
		t.Errorf("key = %q", gotKey)
	}
	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	cfg, _ := gotBody["generationConfig"].(map[string]any)
	if cfg["topK"] != float64(40) || cfg["maxOutputTokens"] != float64(2048) {
		t.Errorf("generationConfig = %v", cfg)
	}
}

func TestGeminiErrorOmitsKey(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	g := NewGemini("SUPERSECRETKEY", 2*time.Second)
	g.BaseURL = base
	_, err := g.Generate(context.Background(), "write")
	if err == nil {
		t.Fatal("expected a connection error")
	}
	if strings.Contains(err.Error(), "SUPERSECRETKEY") {
		t.Fatalf("error leaks the key: %v", err)
	}
}

func TestAnthropicHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "akey" || r.Header.Get("anthropic-version") != "2023-06-01" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req anthropicRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "claude-3-haiku-20240307" || req.MaxTokens != 2000 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"content":[{"type":"text","text":"Moonlit guidance"}]}`))
	}))
	defer srv.Close()

	a := NewAnthropic("akey", 5*time.Second)
	a.BaseURL = srv.URL
	text, err := a.Generate(context.Background(), "write")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if text != "Moonlit guidance" {
		t.Errorf("text = %q", text)
	}
}

func TestCohereAndHuggingFaceBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/generate") {
			w.Write([]byte(`{"generations":[{"text":"cohere text"}]}`))
			return
		}
		w.Write([]byte(`[{"generated_text":"hf text"}]`))
	}))
	defer srv.Close()

	c := NewCohere("tok", 5*time.Second)
	c.BaseURL = srv.URL + "/v1/generate"
	if text, err := c.Generate(context.Background(), "p"); err != nil || text != "cohere text" {
		t.Errorf("cohere = %q, %v", text, err)
	}

	h := NewHuggingFace("tok", 5*time.Second)
	h.BaseURL = srv.URL + "/models"
	if text, err := h.Generate(context.Background(), "p"); err != nil || text != "hf text" {
		t.Errorf("huggingface = %q, %v", text, err)
	}
}

func TestProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/down":
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
		case "/empty":
			w.Write([]byte(`{"content":[]}`))
		default:
			w.Write([]byte(`{not json`))
		}
	}))
	defer srv.Close()

	a := NewAnthropic("k", 5*time.Second)

	a.BaseURL = srv.URL + "/down"
	_, err := a.Generate(context.Background(), "p")
	if err == nil || !strings.Contains(err.Error(), "Anthropic API error (status 503)") {
		t.Errorf("status error = %v", err)
	}

	a.BaseURL = srv.URL + "/empty"
	if _, err := a.Generate(context.Background(), "p"); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty error = %v", err)
	}

	a.BaseURL = srv.URL + "/garbage"
	if _, err := a.Generate(context.Background(), "p"); err == nil || !strings.Contains(err.Error(), "parse") {
		t.Errorf("parse error = %v", err)
	}
}

func TestMissingKey(t *testing.T) {
	for _, g := range []Generator{
		NewGemini("", time.Second), NewAnthropic("", time.Second), NewCohere("", time.Second),
		NewHuggingFace("", time.Second), NewOpenAI("", time.Second),
	} {
		if _, err := g.Generate(context.Background(), "p"); !errors.Is(err, ErrNoKey) {
			t.Errorf("%s: err = %v, want ErrNoKey", g.Name(), err)
		}
	}
}

type stubGen struct {
	name string
	text string
	err  error
	hits int
}

func (s *stubGen) Name() string { return s.name }
func (s *stubGen) Generate(context.Context, string) (string, error) {
	s.hits++
	return s.text, s.err
}

func TestChainFallsThrough(t *testing.T) {
	first := &stubGen{name: "gemini", err: ErrNoKey}
	second := &stubGen{name: "anthropic", err: errors.New("timeout")}
	third := &stubGen{name: "cohere", text: "written"}
	fourth := &stubGen{name: "huggingface", text: "unused"}

	res, err := NewChain(first, second, third, fourth).Generate(context.Background(), "p")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if res.Provider != "cohere" || res.Text != "written" {
		t.Errorf("result = %+v", res)
	}
	if fourth.hits != 0 {
		t.Error("chain continued past first success")
	}
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(&stubGen{name: "a", err: ErrNoKey}, &stubGen{name: "b", err: errors.New("boom")})
	_, err := chain.Generate(context.Background(), "p")
	if !errors.Is(err, ErrAllFailed) {
		t.Fatalf("err = %v, want ErrAllFailed", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("last error not wrapped: %v", err)
	}

	if _, err := NewChain().Generate(context.Background(), "p"); !errors.Is(err, ErrAllFailed) {
		t.Errorf("empty chain err = %v", err)
	}
}

func TestFromPriority(t *testing.T) {
	chain, err := FromPriority([]string{"cohere", "gemini"}, time.Second)
	if err != nil {
		t.Fatalf("from priority: %v", err)
	}
	if got := strings.Join(chain.Names(), ","); got != "cohere,gemini" {
		t.Errorf("names = %s", got)
	}
	if _, err := FromPriority([]string{"bard"}, time.Second); err == nil {
		t.Error("expected unknown provider error")
	}
}

func TestNewReadsEnvKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "from-gemini-var")
	g, err := New("gemini", time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if g.(*Gemini).apiKey != "from-gemini-var" {
		t.Errorf("key = %q", g.(*Gemini).apiKey)
	}
}

func TestPromptMentionsContext(t *testing.T) {
	snap := astro.Compute(time.Date(2025, time.April, 10, 9, 0, 0, 0, time.UTC))
	p := Prompt("Digital Detox", "Mercury retrograde digital cleansing", snap)
	for _, want := range []string{"Digital Detox", "Aries", "Mercury is retrograde", "# Practical Cosmic Guidance", "AstroAura"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
