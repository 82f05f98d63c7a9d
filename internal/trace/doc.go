// Package trace provides SQLite-backed durable storage for reconcile
// pass logs.
//
// The store implements an append-only log with:
//   - Passes: one row per reconcile pass (token, root, scenario snapshot)
//   - Effects: the ordered mutation sequence a pass produced
//
// Effect order is the contract: a pass's effects are keyed by seq
// INTEGER assigned at record time, and every read uses ORDER BY seq ASC
// so a stored pass reads back exactly as it was produced. Replay re-runs
// each stored scenario through the live diff engine and reports the
// first point where the fresh effect sequence diverges from the stored
// one.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package trace
