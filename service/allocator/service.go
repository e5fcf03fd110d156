package allocator

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/viant/btuid/model"
	"github.com/viant/btuid/progress"
	"github.com/viant/btuid/service/snapshot"
	"github.com/viant/btuid/tracing"
)

// Config represents allocator service configuration
type Config struct {
	// SnapshotInterval is how often the allocator persists its state
	SnapshotInterval time.Duration
}

// DefaultConfig returns the default allocator configuration
func DefaultConfig() Config {
	return Config{
		SnapshotInterval: 24 * time.Hour,
	}
}

// Service hands out values from the partitioned address space. A single
// instance owns its state; Next calls are serialised.
type Service struct {
	config   Config
	state    *model.State
	table    map[string][]string
	snapshot *snapshot.Service
	progress *progress.Progress
	logger   *slog.Logger

	mu           sync.Mutex
	saveMu       sync.Mutex
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
	startOnce    sync.Once
}

// New creates an allocator service over state
func New(state *model.State, options ...Option) (*Service, error) {
	if err := state.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocator state: %w", err)
	}
	ret := &Service{
		config:     DefaultConfig(),
		state:      state.Clone(),
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range options {
		opt(ret)
	}
	if ret.config.SnapshotInterval <= 0 {
		return nil, fmt.Errorf("snapshot interval must be positive, got %v", ret.config.SnapshotInterval)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret, nil
}

// Next returns the next value and advances the state
func (s *Service) Next(ctx context.Context) (value *big.Int, err error) {
	_, span := tracing.StartSpan(ctx, "allocator.Next", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()

	s.mu.Lock()
	depth := s.state.Depth
	value, err = Next(s.state)
	advanced := s.state.Depth - depth
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	s.progress.Update(progress.Delta{Issued: 1, DepthAdvances: advanced})
	if advanced > 0 {
		s.logger.Debug("allocator depth advanced", "depth", depth+advanced)
	}
	return value, nil
}

// State returns a copy of the current state
func (s *Service) State() *model.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Record returns the current state and table as a persistable record
func (s *Service) Record() *model.Record {
	return model.NewRecord(s.State(), s.table)
}

// Save writes the current state. Capture and write happen under one lock so
// an older record never replaces a newer one.
func (s *Service) Save(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.snapshot.Snapshot(ctx, s.Record())
}

// Start runs the snapshot loop until ctx is cancelled or Shutdown is called.
// Without a snapshot service it returns immediately.
func (s *Service) Start(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	started := false
	s.startOnce.Do(func() { started = true })
	if !started {
		return fmt.Errorf("allocator snapshot loop already started")
	}
	defer close(s.done)

	ticker := time.NewTicker(s.config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			if err := s.Save(ctx); err != nil {
				// already logged and counted, retried on next tick
				continue
			}
		}
	}
}

// Shutdown stops the snapshot loop and flushes the latest state
func (s *Service) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() { close(s.shutdownCh) })
	running := true
	s.startOnce.Do(func() { running = false })
	if running && s.snapshot != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return s.Save(ctx)
}
