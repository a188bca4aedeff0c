package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Querier used for tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][]Row
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string][]Row)}
}

// Seed appends rows to a table. Rows are copied so later mutation of the
// caller's maps does not leak into the store.
func (s *MemoryStore) Seed(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		s.tables[table] = append(s.tables[table], cp)
	}
}

// Count implements Querier.
func (s *MemoryStore) Count(ctx context.Context, q Query) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, row := range s.tables[q.Table] {
		if matches(row, q.Filters) {
			n++
		}
	}
	return n, nil
}

// Select implements Querier.
func (s *MemoryStore) Select(ctx context.Context, q Query) ([]Row, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Row
	for _, row := range s.tables[q.Table] {
		if matches(row, q.Filters) {
			out = append(out, row)
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			for _, o := range q.OrderBy {
				c := compare(out[i][o.Column], out[j][o.Column])
				if c == 0 {
					continue
				}
				if o.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Get implements Querier. A missing row yields (nil, nil).
func (s *MemoryStore) Get(ctx context.Context, q Query) (Row, error) {
	q.Limit = 1
	rows, err := s.Select(ctx, q)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func matches(row Row, filters []Filter) bool {
	for _, f := range filters {
		v, ok := row[f.Column]
		switch f.Op {
		case OpEq:
			if !ok || compare(v, f.Value) != 0 {
				return false
			}
		case OpGte:
			if !ok || compare(v, f.Value) < 0 {
				return false
			}
		case OpLte:
			if !ok || compare(v, f.Value) > 0 {
				return false
			}
		case OpIn:
			values, _ := f.Value.([]interface{})
			found := false
			for _, want := range values {
				if ok && compare(v, want) == 0 {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case OpNotNull:
			if !ok || v == nil {
				return false
			}
		}
	}
	return true
}

// compare orders two column values. Numbers compare numerically across int
// widths, times chronologically, everything else by string form. Nil sorts
// before any value.
func compare(a, b interface{}) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	at, aok := asTime(a)
	bt, bok := asTime(b)
	if aok && bok {
		return at.Compare(bt)
	}

	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(asString(a), asString(b))
}

func asTime(v interface{}) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if b, ok := v.(bool); ok {
		if b {
			return "true"
		}
		return "false"
	}
	return ""
}
