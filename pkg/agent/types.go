package agent

import (
	"fmt"
)

// Message is one turn of the conversation.
type Message struct {
	Role       string                 `json:"role"` // user, assistant, tool
	Content    string                 `json:"content"`
	ToolCalls  []ToolCall             `json:"tool_calls,omitempty"`
	ToolCallID string                 `json:"tool_call_id,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ToolCall is one tool invocation requested by the model.
type ToolCall struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// TokenUsage tracks token consumption across a run.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Proposal is the model's next action: either a final answer or one or more
// tool calls.
type Proposal struct {
	Answer    string
	ToolCalls []ToolCall
	Usage     *TokenUsage
}

// TerminalReason says why a run stopped.
type TerminalReason string

const (
	// ReasonAnswer means the model produced a final answer.
	ReasonAnswer TerminalReason = "answer"
	// ReasonExhausted means the step budget ran out first.
	ReasonExhausted TerminalReason = "exhausted"
)

// Result is the outcome of a completed run.
type Result struct {
	RunID        string         `json:"run_id"`
	Answer       string         `json:"answer"`
	Steps        int            `json:"steps"`
	Reason       TerminalReason `json:"reason"`
	Conversation []Message      `json:"conversation"`
	Usage        TokenUsage     `json:"usage"`
}

// ExhaustedError reports that the loop hit its step bound without a final
// answer. It carries the partial conversation so callers can inspect what
// the run managed to do.
type ExhaustedError struct {
	Steps        int
	Conversation []Message
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("agent: step budget exhausted after %d steps", e.Steps)
}

// ProviderError reports that the model collaborator failed or returned a
// proposal the loop cannot act on.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("agent: provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
