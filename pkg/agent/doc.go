// Package agent drives an LLM policy through a bounded loop of proposals and
// tool dispatches.
//
// Invariants:
// - One step is one model proposal plus every tool dispatch it requested.
// - The loop terminates after at most MaxSteps steps, with an externally
//   observable terminal reason.
// - Tool observations are folded back in request order, regardless of
//   completion order.
// - Validation and recoverable query failures feed back to the model;
//   provider failures and non-recoverable store failures end the run.
//
// Usage:
//
//	runner, _ := agent.NewRunner(agent.Config{
//		Provider: provider,
//		Registry: registry,
//		Model:    "claude-sonnet-4-20250514",
//		MaxSteps: 5,
//	})
//	result, err := runner.Run(ctx, "How many deliveries failed this week?")
//	_ = result
//	_ = err
package agent
