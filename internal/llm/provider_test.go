package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

var definitionSchema = &Schema{
	Name: "test-definition",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"definition": map[string]any{"type": "string"},
			"level":      map[string]any{"type": "string", "enum": []any{"A1", "B1"}},
		},
		"required":             []any{"definition"},
		"additionalProperties": false,
	},
}

func jsonHandler(status int, body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func newTestAnthropic(t *testing.T, h http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewAnthropicProvider(
		AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(srv.URL),
		option.WithMaxRetries(0),
	)
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 12, "output_tokens": 8},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"definition":"a small animal"}`, "end_turn")))

	resp, err := p.Generate(context.Background(), UserPrompt("sys", "define cat", definitionSchema, 200))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if resp.Usage.Total() != 20 {
		t.Errorf("usage total = %d, want 20", resp.Usage.Total())
	}
	if resp.StopReason != StopEnd {
		t.Errorf("stop = %q, want end", resp.StopReason)
	}
	var out struct{ Definition string }
	if err := resp.Decode(&out); err != nil || out.Definition != "a small animal" {
		t.Errorf("decode = %+v, %v", out, err)
	}
	if p.ModelID() != "claude-haiku-4-5-20251001" {
		t.Errorf("model alias not resolved: %s", p.ModelID())
	}
}

func TestAnthropicProvider_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(error) bool
	}{
		{"rate limit", http.StatusTooManyRequests, func(err error) bool {
			var rl *ErrRateLimit
			return errors.As(err, &rl)
		}},
		{"server error", http.StatusInternalServerError, func(err error) bool {
			var u *ErrProviderUnavailable
			return errors.As(err, &u)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropic(t, jsonHandler(tt.status, map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "nope"},
			}))
			_, err := p.Generate(context.Background(), UserPrompt("", "hi", nil, 10))
			if err == nil || !tt.check(err) {
				t.Errorf("error = %v (%T)", err, err)
			}
		})
	}
}

func TestAnthropicProvider_Truncated(t *testing.T) {
	p := newTestAnthropic(t, jsonHandler(http.StatusOK, anthropicMessage(`{"definition":"a sm`, "max_tokens")))
	_, err := p.Generate(context.Background(), UserPrompt("", "define cat", definitionSchema, 5))
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Errorf("error = %v, want ErrMaxTokensExceeded", err)
	}
}

func newTestOpenAI(t *testing.T, h http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	if err != nil {
		t.Fatalf("new provider: %v", err)
	}
	return p
}

func TestOpenAIProvider_Generate(t *testing.T) {
	var gotFormat string
	p := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if rf, ok := body["response_format"].(map[string]any); ok {
			gotFormat, _ = rf["type"].(string)
		}
		jsonHandler(http.StatusOK, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": `{"definition":"a small animal","level":"A1"}`},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 30, "completion_tokens": 10, "total_tokens": 40},
		})(w, r)
	})

	resp, err := p.Generate(context.Background(), UserPrompt("sys", "define cat", definitionSchema, 100))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if gotFormat != "json_schema" {
		t.Errorf("response_format.type = %q, want json_schema", gotFormat)
	}
	if resp.Usage.InputTokens != 30 || resp.Usage.OutputTokens != 10 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	p := newTestOpenAI(t, jsonHandler(http.StatusOK, map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-4o-mini",
		"choices": []map[string]any{{
			"message":       map[string]any{"role": "assistant", "content": `{"level":"Z9"}`},
			"finish_reason": "stop",
		}},
	}))
	_, err := p.Generate(context.Background(), UserPrompt("", "define cat", definitionSchema, 100))
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("error = %v, want ErrInvalidResponse", err)
	}
}

func TestOpenAIProvider_RateLimit(t *testing.T) {
	p := newTestOpenAI(t, jsonHandler(http.StatusTooManyRequests, map[string]any{
		"error": map[string]any{"message": "slow down", "type": "rate_limit"},
	}))
	_, err := p.Generate(context.Background(), UserPrompt("", "hi", nil, 10))
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Errorf("error = %v, want ErrRateLimit", err)
	}
}

func TestToGeminiSchema(t *testing.T) {
	s := toGeminiSchema(definitionSchema.Definition)
	if s.Type != genai.TypeObject {
		t.Fatalf("type = %v, want object", s.Type)
	}
	if len(s.Properties) != 2 || s.Properties["definition"].Type != genai.TypeString {
		t.Errorf("properties = %+v", s.Properties)
	}
	if strings.Join(s.Required, ",") != "definition" {
		t.Errorf("required = %v", s.Required)
	}
	if strings.Join(s.Properties["level"].Enum, ",") != "A1,B1" {
		t.Errorf("enum = %v", s.Properties["level"].Enum)
	}

	arr := toGeminiSchema(map[string]any{"type": "array", "items": map[string]any{"type": "integer"}})
	if arr.Type != genai.TypeArray || arr.Items.Type != genai.TypeInteger {
		t.Errorf("array schema = %+v", arr)
	}
}

func TestResolveModel(t *testing.T) {
	if got := resolveModel("gemini-flash", geminiAliases); got != "gemini-2.0-flash" {
		t.Errorf("alias = %q", got)
	}
	if got := resolveModel("custom-model", geminiAliases); got != "custom-model" {
		t.Errorf("passthrough = %q", got)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"none", Config{}, true},
		{"mock", Config{Provider: ProviderMock}, false},
		{"anthropic missing key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"openai", Config{Provider: ProviderOpenAI, OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{"gemini missing key", Config{Provider: ProviderGemini}, true},
		{"unknown", Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if !errors.Is(Config{}.Validate(), ErrNotConfigured) {
		t.Error("empty provider should be ErrNotConfigured")
	}
}

func TestPurpose(t *testing.T) {
	ctx := context.Background()
	if got := PurposeFrom(ctx); got != "unknown" {
		t.Errorf("default purpose = %q", got)
	}
	if got := PurposeFrom(WithPurpose(ctx, "enrich")); got != "enrich" {
		t.Errorf("purpose = %q", got)
	}
}

func TestMockProvider(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"definition":"x"}`), Usage: Usage{InputTokens: 1}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	resp, err := m.Generate(context.Background(), UserPrompt("", "a", definitionSchema, 10))
	if err != nil || resp.Model != "mock" {
		t.Fatalf("first reply = %+v, %v", resp, err)
	}
	if _, err := m.Generate(context.Background(), UserPrompt("", "b", nil, 10)); err == nil {
		t.Error("expected canned error")
	}
	var u *ErrProviderUnavailable
	if _, err := m.Generate(context.Background(), UserPrompt("", "c", nil, 10)); !errors.As(err, &u) {
		t.Errorf("empty queue error = %v", err)
	}
	if n := len(m.Calls()); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"definition":"x","level":"A1"}`, false},
		{"optional omitted", `{"definition":"x"}`, false},
		{"missing required", `{"level":"A1"}`, true},
		{"wrong type", `{"definition":3}`, true},
		{"bad enum", `{"definition":"x","level":"C9"}`, true},
		{"extra field", `{"definition":"x","other":1}`, true},
		{"malformed", `{"definition":`, true},
		{"empty", ``, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(definitionSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("validateResponse() = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *ErrInvalidResponse
			if err != nil && !errors.As(err, &inv) {
				t.Errorf("error type = %T, want *ErrInvalidResponse", err)
			}
		})
	}
	if err := validateResponse(nil, json.RawMessage(`not json`)); err != nil {
		t.Errorf("nil schema should accept anything: %v", err)
	}
}
