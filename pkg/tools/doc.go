// Package tools implements the logistics query tool catalog: read-only,
// tenant-scoped count, breakdown, listing and lookup operations over the
// operational data store.
//
// Invariants:
// - Every query carries the tenant filter before any other filter; omitting
//   the tenant argument substitutes the configured default tenant.
// - Breakdown tools enumerate their category sets explicitly and report
//   every category, including zero counts.
// - Day windows are bounded to [1,90] and listing limits to [1,100] by the
//   tool schemas; out-of-range calls never reach the store.
package tools
