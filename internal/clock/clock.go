// Package clock is the time source for snapshots and statistics.
package clock

import "time"

// NowFunc is replaced in tests to pin time.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }

// UTC returns the current time in UTC.
func UTC() time.Time { return NowFunc().UTC() }

// Since returns the time elapsed since t according to NowFunc.
func Since(t time.Time) time.Duration { return NowFunc().Sub(t) }
