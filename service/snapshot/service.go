package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/viant/btuid/internal/clock"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/progress"
	"github.com/viant/btuid/service/dao"
	"github.com/viant/btuid/tracing"
)

// Service reads and writes the record stored under a single id.
type Service struct {
	dao      dao.Service[string, model.Record]
	id       string
	logger   *slog.Logger
	progress *progress.Progress
	mu       sync.Mutex
}

// New creates a snapshot service for the record stored under id
func New(stateDAO dao.Service[string, model.Record], id string, options ...Option) (*Service, error) {
	if stateDAO == nil {
		return nil, fmt.Errorf("state dao is required")
	}
	if id == "" {
		return nil, fmt.Errorf("state location is required")
	}
	ret := &Service{dao: stateDAO, id: id}
	for _, opt := range options {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	return ret, nil
}

// ID returns the location of the persisted record
func (s *Service) ID() string {
	return s.id
}

// Restore loads the stored record. A missing record is the first-run case and
// yields (nil, nil); an unreadable one is an error.
func (s *Service) Restore(ctx context.Context) (record *model.Record, err error) {
	ctx, span := tracing.StartSpan(ctx, "snapshot.Restore", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"state.location": s.id})

	record, err = s.dao.Load(ctx, s.id)
	if errors.Is(err, dao.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to restore state from %s: %w", s.id, err)
	}
	return record, nil
}

// Bootstrap synchronously writes the initial record. It fails with
// dao.ErrAlreadyExists when another writer created the record first.
func (s *Service) Bootstrap(ctx context.Context, record *model.Record) (err error) {
	ctx, span := tracing.StartSpan(ctx, "snapshot.Bootstrap", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"state.location": s.id})

	s.mu.Lock()
	defer s.mu.Unlock()
	stamp(record)
	if err = s.dao.Create(ctx, s.id, record); err != nil {
		return fmt.Errorf("failed to bootstrap state at %s: %w", s.id, err)
	}
	s.logger.Debug("state bootstrapped", "location", s.id)
	return nil
}

// Snapshot overwrites the stored record. Writes are serialised; failures are
// logged and counted before being returned.
func (s *Service) Snapshot(ctx context.Context, record *model.Record) (err error) {
	ctx, span := tracing.StartSpan(ctx, "snapshot.Snapshot", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	span.WithAttributes(map[string]string{"state.location": s.id})

	s.mu.Lock()
	defer s.mu.Unlock()
	started := clock.Now()
	stamp(record)
	if err = s.dao.Save(ctx, s.id, record); err != nil {
		s.progress.Update(progress.Delta{SnapshotFailures: 1})
		s.logger.Warn("state snapshot failed", "location", s.id, "error", err)
		return fmt.Errorf("failed to snapshot state to %s: %w", s.id, err)
	}
	s.progress.Update(progress.Delta{Snapshots: 1})
	s.logger.Debug("state snapshot written", "location", s.id, "depth", record.Depth.String(), "elapsed", clock.Since(started))
	return nil
}

func stamp(record *model.Record) {
	if record == nil {
		return
	}
	now := clock.UTC()
	record.SavedAt = &now
}
