package allocator

import (
	"log/slog"
	"time"

	"github.com/viant/btuid/progress"
	"github.com/viant/btuid/service/snapshot"
)

// Option represents an allocator option
type Option func(*Service)

// WithConfig sets the allocator configuration
func WithConfig(config Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithSnapshotInterval sets how often state is persisted
func WithSnapshotInterval(interval time.Duration) Option {
	return func(s *Service) {
		s.config.SnapshotInterval = interval
	}
}

// WithSnapshot sets the service persisting allocator state
func WithSnapshot(snapshot *snapshot.Service) Option {
	return func(s *Service) {
		s.snapshot = snapshot
	}
}

// WithTable sets the substitution table persisted alongside the state
func WithTable(table map[string][]string) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithProgress sets the tracker receiving allocation counters
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}

// WithLogger sets the allocator logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}
