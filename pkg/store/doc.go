// Package store exposes the operational data store as a parameterized,
// read-only query executor.
//
// Invariants:
// - Queries are descriptors (table, filters, ordering, limit); no raw SQL
//   crosses the package boundary.
// - All access is read-only; the package offers no mutation surface.
// - Absence of a row on Get is a nil result, not an error.
//
// Usage:
//
//	st, _ := store.New(store.Config{Backend: "memory"})
//	n, _ := st.Count(ctx, store.Query{
//		Table:   "orders",
//		Filters: []store.Filter{store.Eq("organization_id", tenant)},
//	})
//	_ = n
package store
