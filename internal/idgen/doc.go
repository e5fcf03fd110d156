// Package idgen produces the instance identifiers that tag allocator
// statistics.  Tests may replace NewFunc to get stable values.
package idgen
