package btuid

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"

	"github.com/viant/afs/url"
	"github.com/viant/btuid/internal/idgen"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/progress"
	"github.com/viant/btuid/service/allocator"
	"github.com/viant/btuid/service/codec"
	"github.com/viant/btuid/service/dao"
	fsdao "github.com/viant/btuid/service/dao/state/fs"
	"github.com/viant/btuid/service/dao/state/memory"
	"github.com/viant/btuid/service/dao/state/sqlite"
	"github.com/viant/btuid/service/snapshot"
	"github.com/viant/btuid/service/token"
	"github.com/viant/btuid/tracing"
)

// Service issues identifiers and tokens and converts them to and from their
// display form.
type Service struct {
	config        *Config
	explicitState *model.State
	stateDAO      dao.Service[string, model.Record]
	logger        *slog.Logger
	random        codec.Rand
	entropy       io.Reader
	table         *codec.Table
	defaultKey    string

	progress  *progress.Progress
	snapshot  *snapshot.Service
	allocator *allocator.Service
	tokens    *token.Service
	codec     *codec.Codec
	closers   []io.Closer
}

// New creates a service, restoring the persisted state when a URL is
// configured and bootstrapping it on first run.
func New(ctx context.Context, options ...Option) (*Service, error) {
	ret := &Service{}
	for _, opt := range options {
		opt(ret)
	}
	if ret.config == nil {
		ret.config = DefaultConfig()
	}
	if err := ret.config.Validate(); err != nil {
		return nil, err
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.random == nil {
		ret.random = codec.DefaultRand()
	}
	if ret.config.Tracing.Enabled {
		if err := tracing.Init(ret.config.Tracing.ServiceName, "", ret.config.Tracing.OutputFile); err != nil {
			return nil, fmt.Errorf("failed to init tracing: %w", err)
		}
	}
	ret.progress = progress.New(idgen.New())
	if err := ret.init(ctx); err != nil {
		_ = ret.close()
		return nil, err
	}
	return ret, nil
}

func (s *Service) init(ctx context.Context) error {
	if err := s.initSnapshot(); err != nil {
		return err
	}
	state, err := s.initState(ctx)
	if err != nil {
		return err
	}
	var forward map[string][]string
	if s.table != nil {
		forward = s.table.Forward()
	}
	s.allocator, err = allocator.New(state,
		allocator.WithSnapshot(s.snapshot),
		allocator.WithSnapshotInterval(s.config.SnapshotInterval()),
		allocator.WithTable(forward),
		allocator.WithProgress(s.progress),
		allocator.WithLogger(s.logger))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.tokens = token.New(s.allocator, token.WithEntropy(s.entropy))
	if s.table != nil {
		digest, _ := codec.DigestByName(s.config.Codec.Digest)
		s.codec = codec.New(s.table, codec.WithRand(s.random), codec.WithDigest(digest))
	}
	if s.defaultKey == "" && s.config.Codec.KeyURL != "" {
		if s.defaultKey, err = loadKey(ctx, s.config.Codec.KeyURL, s.config.Codec.KeyCipher); err != nil {
			return fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
	}
	s.logger.Info("btuid service ready",
		"depth", state.Depth, "fanout", state.Fanout, "durable", s.snapshot != nil, "codec", s.codec != nil)
	return nil
}

func (s *Service) initSnapshot() error {
	URL := s.config.URL
	if URL == "" {
		return nil
	}
	if s.stateDAO == nil {
		switch s.config.Store {
		case StoreSQLite:
			db, err := sqlite.Open(url.Path(URL))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrPersistence, err)
			}
			s.closers = append(s.closers, db)
			s.stateDAO = db
		case StoreMemory:
			s.stateDAO = memory.New()
		default:
			s.stateDAO = fsdao.New(nil)
		}
	}
	var err error
	s.snapshot, err = snapshot.New(s.stateDAO, URL, snapshot.WithLogger(s.logger), snapshot.WithProgress(s.progress))
	return err
}

// initState picks the starting state: explicit, restored or freshly
// bootstrapped. The table is generated at most once per persisted record.
func (s *Service) initState(ctx context.Context) (*model.State, error) {
	if s.explicitState != nil {
		if err := s.explicitState.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
		}
		if err := s.restoreTable(ctx); err != nil {
			return nil, err
		}
		s.ensureTable()
		return s.explicitState.Clone(), nil
	}
	fanout, err := s.config.Fanout()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	startOffset, err := s.config.StartOffset()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	if s.snapshot == nil {
		s.ensureTable()
		return allocator.NewState(fanout, startOffset), nil
	}

	record, err := s.snapshot.Restore(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if record == nil {
		state := allocator.NewState(fanout, startOffset)
		s.ensureTable()
		if err = s.snapshot.Bootstrap(ctx, model.NewRecord(state, s.forward())); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		s.logger.Info("allocator state bootstrapped", "location", s.snapshot.ID())
		return state, nil
	}

	state, err := record.State()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if state.Fanout != fanout {
		s.logger.Warn("persisted fanout differs from configuration, keeping persisted", "persisted", state.Fanout, "configured", fanout)
	}
	if len(record.Table) > 0 {
		if err = s.adoptTable(record); err != nil {
			return nil, err
		}
		return state, nil
	}
	if s.ensureTable() {
		if err = s.snapshot.Snapshot(ctx, model.NewRecord(state, s.forward())); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
		}
	}
	return state, nil
}

// restoreTable adopts the table of an already persisted record, leaving its
// state fields aside.
func (s *Service) restoreTable(ctx context.Context) error {
	if s.snapshot == nil {
		return nil
	}
	record, err := s.snapshot.Restore(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	if record == nil || len(record.Table) == 0 {
		return nil
	}
	return s.adoptTable(record)
}

func (s *Service) adoptTable(record *model.Record) error {
	table, err := codec.NewTable(record.Table)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.table = table
	return nil
}

// ensureTable builds a table when the codec is enabled and none was supplied;
// it reports whether a new table was built.
func (s *Service) ensureTable() bool {
	if s.table != nil || !s.config.Codec.Enabled {
		return false
	}
	s.table = codec.Build(codec.DefaultPool(), s.random)
	return true
}

func (s *Service) forward() map[string][]string {
	if s.table == nil {
		return nil
	}
	return s.table.Forward()
}

// IssueToken returns the next identifier followed by a random suffix.
func (s *Service) IssueToken(ctx context.Context) (tok string, err error) {
	ctx, span := tracing.StartSpan(ctx, "btuid.IssueToken", tracing.KindInternal)
	defer func() { tracing.EndSpan(span, err) }()
	return s.tokens.Issue(ctx)
}

// IssueRawID returns the next allocated value.
func (s *Service) IssueRawID(ctx context.Context) (*big.Int, error) {
	return s.allocator.Next(ctx)
}

// IssueID returns the next identifier as 16 hex digits without a suffix.
func (s *Service) IssueID(ctx context.Context) (string, error) {
	return s.tokens.ID(ctx)
}

// Encode converts the identifier part of token to its display form. The
// suffix is kept as is. An empty key selects the default key, if any.
func (s *Service) Encode(tok, key string) (string, error) {
	if s.codec == nil {
		return "", ErrNoTable
	}
	id, suffix := token.Split(tok)
	encoded, err := s.codec.Encode(id, s.key(key))
	if err != nil {
		return "", err
	}
	return token.Join(encoded, suffix), nil
}

// Decode reverses Encode for the same key.
func (s *Service) Decode(tok, key string) (string, error) {
	if s.codec == nil {
		return "", ErrNoTable
	}
	id, suffix := token.Split(tok)
	decoded, err := s.codec.Decode(id, s.key(key))
	if err != nil {
		return "", err
	}
	return token.Join(decoded, suffix), nil
}

func (s *Service) key(key string) string {
	if key == "" {
		return s.defaultKey
	}
	return key
}

// State returns a copy of the allocator state
func (s *Service) State() *model.State {
	return s.allocator.State()
}

// Record returns the state and table in their persisted form
func (s *Service) Record() *model.Record {
	return s.allocator.Record()
}

// Stats returns allocation and snapshot counters
func (s *Service) Stats() progress.Progress {
	return s.progress.Snapshot()
}

// Save persists the current state immediately
func (s *Service) Save(ctx context.Context) error {
	return s.allocator.Save(ctx)
}

// Start runs the periodic snapshot loop until ctx is done or Shutdown is called
func (s *Service) Start(ctx context.Context) error {
	return s.allocator.Start(ctx)
}

// Shutdown stops the snapshot loop, writes the final state and releases the store
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.allocator.Shutdown(ctx)
	if cErr := s.close(); err == nil {
		err = cErr
	}
	return err
}

func (s *Service) close() error {
	var err error
	for _, closer := range s.closers {
		if cErr := closer.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}
	s.closers = nil
	return err
}
