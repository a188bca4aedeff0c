// Package toolexec holds the tool catalog and dispatches schema-validated
// tool calls.
//
// Invariants:
// - The registry is built once and never mutated afterwards; it is safe for
//   unsynchronized concurrent reads.
// - Arguments are schema-validated before a handler runs; a call that fails
//   validation never reaches the data store.
// - Unknown tool names are validation failures, not lookup panics.
//
// Usage:
//
//	reg, _ := toolexec.NewRegistry([]toolexec.Definition{{
//		Name: "sites-count",
//		Description: "Count sites",
//		Handler: func(ctx context.Context, args map[string]interface{}) (interface{}, error) { return nil, nil },
//	}})
//	exec := toolexec.NewExecutor(reg)
//	res := exec.Dispatch(ctx, toolexec.Request{Name: "sites-count"})
//	_ = res
package toolexec
