// Package tracing integrates OpenTelemetry with the allocator so that issue,
// restore and snapshot operations can be observed.  All instrumentation is
// kept in a separate package; without an installed provider every span is a
// no-op.
package tracing
