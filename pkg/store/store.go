package store

import (
	"context"
	"errors"
	"fmt"
)

// Row is a single result row keyed by column name.
type Row map[string]interface{}

// Op identifies a filter operator supported by the store.
type Op string

const (
	OpEq      Op = "eq"
	OpGte     Op = "gte"
	OpLte     Op = "lte"
	OpIn      Op = "in"
	OpNotNull Op = "not_null"
)

// Filter is a single predicate applied to a column.
type Filter struct {
	Column string
	Op     Op
	Value  interface{}
}

// Eq matches rows whose column equals value.
func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpEq, Value: value}
}

// Gte matches rows whose column is greater than or equal to value.
func Gte(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpGte, Value: value}
}

// Lte matches rows whose column is less than or equal to value.
func Lte(column string, value interface{}) Filter {
	return Filter{Column: column, Op: OpLte, Value: value}
}

// In matches rows whose column equals any of the given values.
func In(column string, values ...interface{}) Filter {
	return Filter{Column: column, Op: OpIn, Value: values}
}

// NotNull matches rows whose column is present and non-null.
func NotNull(column string) Filter {
	return Filter{Column: column, Op: OpNotNull}
}

// Order is a single sort key.
type Order struct {
	Column string
	Desc   bool
}

// Query describes one read against a table. Filters are applied in order;
// callers that scope by tenant put the tenant filter first.
type Query struct {
	Table   string
	Columns []string // empty means all columns
	Filters []Filter
	OrderBy []Order
	Limit   int // 0 means no limit
}

// Querier executes read queries against the operational data store. It is
// safe for concurrent use; implementations hold no per-call mutable state.
type Querier interface {
	// Count returns the number of rows matching the query.
	Count(ctx context.Context, q Query) (int, error)

	// Select returns the matching rows, honoring ordering and limit.
	Select(ctx context.Context, q Query) ([]Row, error)

	// Get returns the first matching row, or nil when no row matches.
	// A missing row is a normal outcome, not an error.
	Get(ctx context.Context, q Query) (Row, error)
}

// QueryError wraps a store failure with enough context to decide whether the
// failure can be fed back to the model or must abort the run.
type QueryError struct {
	Op             string // "count", "select" or "get"
	Table          string
	Err            error
	NonRecoverable bool // configuration/auth class failures
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("store: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NonRecoverable reports whether err carries a QueryError that must not be
// retried or fed back to the model (e.g. bad credentials).
func NonRecoverable(err error) bool {
	var qe *QueryError
	if !errors.As(err, &qe) {
		return false
	}
	return qe.NonRecoverable
}
