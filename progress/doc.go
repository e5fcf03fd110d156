// Package progress keeps aggregated allocation counters (identifiers issued,
// depth advances, snapshots written or failed) for a single allocator
// instance.  Every component holding the tracker can update the counters
// via the Delta helper without requiring a global registry.
package progress
