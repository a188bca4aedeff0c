package agent

import (
	"context"
	"fmt"

	"github.com/openfleet/opsagent/pkg/toolexec"
)

// Request carries one proposal call to the model collaborator.
type Request struct {
	Model       string
	System      string
	Messages    []Message
	Tools       []toolexec.Definition
	Temperature float64
	MaxTokens   int
}

// Provider asks the model for its next action. Implementations are opaque
// remote calls; any failure surfaces to the loop as a ProviderError.
type Provider interface {
	// Propose returns the model's next action for the conversation.
	Propose(ctx context.Context, req Request) (*Proposal, error)

	// Name returns the provider name.
	Name() string
}

// NewProvider creates a provider by name.
func NewProvider(name, apiKey string) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(apiKey), nil
	case "openai":
		return NewOpenAIProvider(apiKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
