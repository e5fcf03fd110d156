// Package allocator owns the allocator state and is the only service allowed
// to mutate it.  Each call to Next descends through a fixed-fanout partition
// of the 2^64 address space: every depth splits the usable range into
// (2*fanout)^depth chunks and hands out one chunk boundary per call, moving
// one level deeper once a depth is exhausted.
//
// The service also owns the periodic snapshot loop that persists the state
// so that a restarted allocator resumes exactly where it left off.
package allocator
