package snapshot

import (
	"log/slog"

	"github.com/viant/btuid/progress"
)

// Option configures the snapshot service
type Option func(*Service)

// WithLogger sets the logger used to report failed snapshots
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProgress sets the tracker receiving snapshot counters
func WithProgress(tracker *progress.Progress) Option {
	return func(s *Service) {
		s.progress = tracker
	}
}
