package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      "mock response",
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestMockProviderRecordsCalls(t *testing.T) {
	mock := NewMockProvider("test")
	ctx := context.Background()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := mock.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}

	if mock.CallCount() != 1 {
		t.Errorf("expected 1 call, got %d", mock.CallCount())
	}

	if mock.Calls[0].Model != "test-model" {
		t.Errorf("expected model 'test-model', got %q", mock.Calls[0].Model)
	}
}

func TestFactoryReturnsErrorForMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	_, err := NewProvider("openai", "gpt-4o")
	if err == nil {
		t.Error("expected error for openai provider with missing API key")
	}
}

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryCreatesOllamaWithoutAPIKey(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://localhost:11434")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "ollama" {
		t.Errorf("expected name 'ollama', got %q", provider.Name())
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestFactoryCreatesOpenAIProvider(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	provider, err := NewProvider("openai", "gpt-4o")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "openai" {
		t.Errorf("expected name 'openai', got %q", provider.Name())
	}
}

func TestRateLimiterPassesThrough(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 60)

	ctx := context.Background()
	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	resp, err := rl.Complete(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Content != "mock response" {
		t.Errorf("expected 'mock response', got %q", resp.Content)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestRateLimiterLimitsRequests(t *testing.T) {
	mock := NewMockProvider("test")
	// Allow only 2 requests per minute.
	rl := NewRateLimitedProvider(mock, 2)

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req := CompletionRequest{
		Model:    "test-model",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}

	// First two should succeed immediately.
	for i := 0; i < 2; i++ {
		_, err := rl.Complete(ctx, req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}

	// Third should block until the context times out.
	_, err := rl.Complete(ctx, req)
	if err == nil {
		t.Error("expected third request to fail after context timeout")
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls to reach the provider, got %d", mock.CallCount())
	}
}

func TestBudgetedProviderEnforcesDailyCap(t *testing.T) {
	mock := NewMockProvider("test")
	b := NewBudgetedProvider(mock, 2)

	ctx := context.Background()
	req := CompletionRequest{Messages: []Message{{Role: RoleUser, Content: "hi"}}}

	for i := 0; i < 2; i++ {
		if _, err := b.Complete(ctx, req); err != nil {
			t.Fatalf("call %d failed: %v", i, err)
		}
	}
	if _, err := b.Complete(ctx, req); !errors.Is(err, ErrBudgetExhausted) {
		t.Errorf("expected ErrBudgetExhausted, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("provider should see 2 calls, saw %d", mock.CallCount())
	}
	if got := b.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestBudgetedProviderResetsNextDay(t *testing.T) {
	mock := NewMockProvider("test")
	b := NewBudgetedProvider(mock, 1)

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return day }

	ctx := context.Background()
	req := CompletionRequest{}
	if _, err := b.Complete(ctx, req); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Complete(ctx, req); !errors.Is(err, ErrBudgetExhausted) {
		t.Fatalf("expected exhausted budget, got %v", err)
	}

	day = day.Add(24 * time.Hour)
	if _, err := b.Complete(ctx, req); err != nil {
		t.Errorf("budget should reset on day change, got %v", err)
	}
}

func TestBudgetedProviderRefundsFailedCalls(t *testing.T) {
	mock := NewMockProvider("test")
	mock.Err = errors.New("upstream down")
	b := NewBudgetedProvider(mock, 1)

	ctx := context.Background()
	if _, err := b.Complete(ctx, CompletionRequest{}); err == nil {
		t.Fatal("expected upstream error")
	}
	if got := b.Remaining(); got != 1 {
		t.Errorf("failed call should not burn budget, Remaining() = %d", got)
	}
}

func TestEstimateCost(t *testing.T) {
	cost := EstimateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	if cost != 0.75 {
		t.Errorf("EstimateCost() = %v, want 0.75", cost)
	}
	if EstimateCost("llama3", 1000, 1000) != 0 {
		t.Error("unknown model should cost 0")
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens("12345678"); got != 2 {
		t.Errorf("EstimateTokens() = %d, want 2", got)
	}
	if got := EstimateTokens("ab"); got != 1 {
		t.Errorf("short non-empty text should estimate 1 token, got %d", got)
	}
	if got := EstimateTokens(""); got != 0 {
		t.Errorf("empty text should estimate 0 tokens, got %d", got)
	}
}
