// Package llm abstracts the chat-completion providers the assistant can
// use, plus the rate-limit and daily-budget wrappers around them.
package llm

import "context"

// Provider is a chat-completion backend.
type Provider interface {
	// Complete sends one completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name identifies the provider ("openai", "ollama").
	Name() string
}

// Role is a message sender in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role    Role
	Content string
}

// CompletionRequest holds the parameters for a completion call. Model
// overrides the provider default when set.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float64
	JSONMode    bool
}

// CompletionResponse is the result of a completion call.
type CompletionResponse struct {
	Content      string
	InputTokens  int
	OutputTokens int
	Model        string
	FinishReason string
}
