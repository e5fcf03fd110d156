// Package snapshot persists allocator records through a dao.Service: a
// restore at construction, a one-time exclusive bootstrap write when nothing
// is stored yet, and best-effort snapshots afterwards.
package snapshot
