package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/openfleet/opsagent/internal/observability"
	"github.com/openfleet/opsagent/internal/tracing"
	"github.com/openfleet/opsagent/pkg/store"
	"github.com/openfleet/opsagent/pkg/toolexec"
)

// DefaultMaxSteps bounds a run when the configuration does not.
const DefaultMaxSteps = 5

// Config holds runner configuration.
type Config struct {
	Provider     Provider
	Registry     *toolexec.Registry
	Logger       zerolog.Logger
	Model        string
	SystemPrompt string
	MaxSteps     int
	MaxTokens    int
	Temperature  float64
}

// Runner executes bounded agent runs. It holds no per-run state and is safe
// for concurrent use; each run owns its conversation exclusively and
// discards it at completion.
type Runner struct {
	provider Provider
	registry *toolexec.Registry
	executor *toolexec.Executor
	logger   zerolog.Logger

	model        string
	systemPrompt string
	maxSteps     int
	maxTokens    int
	temperature  float64
}

// NewRunner creates a runner over an immutable tool registry.
func NewRunner(cfg Config) (*Runner, error) {
	observability.EnsureRegistered()

	if cfg.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if cfg.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}
	if cfg.MaxSteps < 0 {
		return nil, fmt.Errorf("max steps cannot be negative")
	}

	maxSteps := cfg.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSteps
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 4096
	}

	return &Runner{
		provider:     cfg.Provider,
		registry:     cfg.Registry,
		executor:     toolexec.NewExecutor(cfg.Registry),
		logger:       cfg.Logger,
		model:        cfg.Model,
		systemPrompt: cfg.SystemPrompt,
		maxSteps:     maxSteps,
		maxTokens:    maxTokens,
		temperature:  cfg.Temperature,
	}, nil
}

// Run drives the loop for one prompt until the model answers, the step
// budget is exhausted, or a collaborator fails.
//
// The conversation is seeded with the prompt; every step asks the provider
// for the next action and then resolves all tool calls it requested before
// returning to proposing. The error is either nil (final answer), an
// *ExhaustedError carrying the partial conversation, a *ProviderError, or a
// non-recoverable store failure.
func (r *Runner) Run(ctx context.Context, prompt string) (Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	if strings.TrimSpace(prompt) == "" {
		return Result{}, fmt.Errorf("prompt cannot be empty")
	}

	ctx = tracing.WithRunID(ctx, runID)
	ctx, span := tracing.StartSpan(ctx, "opsagent/agent", "agent.run",
		attribute.String("provider", r.provider.Name()),
		attribute.String("model", r.model),
	)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, r.logger)

	conversation := []Message{{Role: "user", Content: prompt}}
	tools := r.registry.Definitions()
	usage := TokenUsage{}

	for step := 1; step <= r.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		proposal, err := r.provider.Propose(ctx, Request{
			Model:       r.model,
			System:      r.systemPrompt,
			Messages:    conversation,
			Tools:       tools,
			Temperature: r.temperature,
			MaxTokens:   r.maxTokens,
		})
		if err != nil {
			logger.Error().Err(err).Int("step", step).Msg("Provider call failed")
			observability.RecordAgentRun(r.provider.Name(), "provider_error", time.Since(start), step)
			return Result{}, &ProviderError{Provider: r.provider.Name(), Err: err}
		}
		if proposal.Usage != nil {
			usage.InputTokens += proposal.Usage.InputTokens
			usage.OutputTokens += proposal.Usage.OutputTokens
		}

		// A cycle with no tool calls and a non-empty answer is terminal.
		if len(proposal.ToolCalls) == 0 {
			if strings.TrimSpace(proposal.Answer) == "" {
				err := fmt.Errorf("proposal carried neither an answer nor tool calls")
				logger.Error().Int("step", step).Msg(err.Error())
				observability.RecordAgentRun(r.provider.Name(), "provider_error", time.Since(start), step)
				return Result{}, &ProviderError{Provider: r.provider.Name(), Err: err}
			}

			conversation = append(conversation, Message{Role: "assistant", Content: proposal.Answer})
			span.SetAttributes(attribute.Int("steps", step), attribute.String("reason", string(ReasonAnswer)))
			logger.Info().Int("steps", step).Msg("Run completed with answer")
			observability.RecordAgentRun(r.provider.Name(), string(ReasonAnswer), time.Since(start), step)

			return Result{
				RunID:        runID,
				Answer:       proposal.Answer,
				Steps:        step,
				Reason:       ReasonAnswer,
				Conversation: conversation,
				Usage:        usage,
			}, nil
		}

		conversation = append(conversation, Message{
			Role:      "assistant",
			Content:   proposal.Answer,
			ToolCalls: proposal.ToolCalls,
		})

		// Every request of this cycle resolves before the next proposal; the
		// dispatch is a join barrier, and results fold in request order.
		results := r.dispatchAll(ctx, proposal.ToolCalls)
		for _, res := range results {
			if res.Err != nil && store.NonRecoverable(res.Err) {
				logger.Error().Err(res.Err).Str("tool", res.Name).Msg("Non-recoverable store failure")
				observability.RecordAgentRun(r.provider.Name(), "store_error", time.Since(start), step)
				return Result{}, fmt.Errorf("tool %s: %w", res.Name, res.Err)
			}
			conversation = append(conversation, Message{
				Role:       "tool",
				Content:    foldResult(res),
				ToolCallID: res.RequestID,
			})
		}
	}

	span.SetAttributes(attribute.Int("steps", r.maxSteps), attribute.String("reason", string(ReasonExhausted)))
	logger.Warn().Int("steps", r.maxSteps).Msg("Run exhausted step budget")
	observability.RecordAgentRun(r.provider.Name(), string(ReasonExhausted), time.Since(start), r.maxSteps)

	return Result{}, &ExhaustedError{Steps: r.maxSteps, Conversation: conversation}
}

// dispatchAll resolves a step's tool calls concurrently and returns the
// results indexed by request order.
func (r *Runner) dispatchAll(ctx context.Context, calls []ToolCall) []toolexec.Result {
	results := make([]toolexec.Result, len(calls))
	var wg sync.WaitGroup

	for i, call := range calls {
		id := call.ID
		if id == "" {
			id, _ = gonanoid.New()
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = r.executor.Dispatch(ctx, toolexec.Request{
				ID:        id,
				Name:      call.Name,
				Arguments: call.Arguments,
			})
		}()
	}

	wg.Wait()
	return results
}

// foldResult renders a dispatch result as observation content for the model.
// Failures, including validation failures, stay observations so the model
// can retry with corrected arguments.
func foldResult(res toolexec.Result) string {
	if res.Success {
		out, err := json.Marshal(res.Output)
		if err != nil {
			return fmt.Sprintf(`{"error":%q}`, err.Error())
		}
		return string(out)
	}

	body := map[string]interface{}{"error": res.Error}
	if res.Validation {
		body["validation"] = true
	}
	out, _ := json.Marshal(body)
	return string(out)
}
