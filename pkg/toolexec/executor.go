package toolexec

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xeipuuv/gojsonschema"
	"go.opentelemetry.io/otel/attribute"

	"github.com/openfleet/opsagent/internal/observability"
	"github.com/openfleet/opsagent/internal/tracing"
)

// Request is one tool call proposed by the model.
type Request struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Result is the structured observation produced by a dispatch. A validation
// failure sets Validation so the loop can fold it back for the model to
// correct; Err keeps the raw execution error for escalation decisions.
type Result struct {
	RequestID  string      `json:"request_id"`
	Name       string      `json:"name"`
	Success    bool        `json:"success"`
	Output     interface{} `json:"output,omitempty"`
	Error      string      `json:"error,omitempty"`
	Validation bool        `json:"validation,omitempty"`
	Err        error       `json:"-"`
}

// Executor resolves requests against a registry. It is stateless and safe to
// reuse across concurrent dispatches.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor over an immutable registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Dispatch validates the request's arguments and invokes the tool. Argument
// failures never reach the tool implementation.
func (e *Executor) Dispatch(ctx context.Context, req Request) Result {
	start := time.Now()

	ctx = tracing.WithToolName(ctx, req.Name)
	ctx, span := tracing.StartSpan(ctx, "opsagent/toolexec", "tool.dispatch",
		attribute.String("tool", req.Name),
	)
	defer span.End()
	logger := tracing.LoggerFromContext(ctx, log.Logger)

	def := e.registry.Get(req.Name)
	if def == nil {
		logger.Warn().Msg("Unknown tool requested")
		return Result{
			RequestID:  req.ID,
			Name:       req.Name,
			Validation: true,
			Error:      fmt.Sprintf("unknown tool: %s", req.Name),
		}
	}

	args := applyDefaults(def, req.Arguments)

	if err := e.validate(req.Name, args); err != nil {
		logger.Warn().Err(err).Msg("Argument validation failed")
		return Result{
			RequestID:  req.ID,
			Name:       req.Name,
			Validation: true,
			Error:      err.Error(),
		}
	}

	logger.Debug().Msg("Dispatching tool")

	output, err := def.Handler(ctx, args)
	duration := time.Since(start)
	observability.RecordToolDispatch(req.Name, duration, err == nil)

	if err != nil {
		logger.Error().Dur("duration", duration).Err(err).Msg("Tool execution failed")
		return Result{
			RequestID: req.ID,
			Name:      req.Name,
			Error:     err.Error(),
			Err:       err,
		}
	}

	logger.Debug().Dur("duration", duration).Msg("Tool execution completed")
	return Result{
		RequestID: req.ID,
		Name:      req.Name,
		Success:   true,
		Output:    output,
	}
}

func (e *Executor) validate(name string, args map[string]interface{}) error {
	schema := e.registry.schemas[name]
	if schema == nil {
		return nil
	}
	if args == nil {
		args = map[string]interface{}{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
	}
	return nil
}

// applyDefaults fills documented defaults for absent optional arguments. The
// request's own map is never mutated.
func applyDefaults(def *Definition, args map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range def.Parameters {
		if p.Default == nil {
			continue
		}
		if _, present := out[p.Name]; !present {
			out[p.Name] = p.Default
		}
	}
	return out
}
