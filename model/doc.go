// Package model contains the in-memory and persisted representation of the
// identifier allocator: the page layout the fanout is derived from, the
// mutable allocator state and the JSON record that survives restarts.
//
// Integers wider than 64 bits are kept as math/big values and serialised as
// decimal strings so that a record round-trips without precision loss.
package model
