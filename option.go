package btuid

import (
	"io"
	"log/slog"

	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/codec"
	"github.com/viant/btuid/service/dao"
)

// Option represents a service option
type Option func(s *Service)

// WithConfig sets the service configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithExplicitState starts the allocator from state instead of the persisted
// one. A persisted substitution table is still adopted.
func WithExplicitState(state *model.State) Option {
	return func(s *Service) {
		s.explicitState = state
	}
}

// WithStateDAO sets the store holding the persisted record, overriding the
// configured backend.
func WithStateDAO(stateDAO dao.Service[string, model.Record]) Option {
	return func(s *Service) {
		s.stateDAO = stateDAO
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRandom sets the random source used to build the table and pick glyphs
func WithRandom(rnd codec.Rand) Option {
	return func(s *Service) {
		s.random = rnd
	}
}

// WithEntropy sets the reader supplying token suffix bytes
func WithEntropy(reader io.Reader) Option {
	return func(s *Service) {
		s.entropy = reader
	}
}

// WithTable sets the substitution table used when none has been persisted
func WithTable(table *codec.Table) Option {
	return func(s *Service) {
		s.table = table
	}
}

// WithDefaultKey sets the passphrase used when Encode or Decode get an empty key
func WithDefaultKey(key string) Option {
	return func(s *Service) {
		s.defaultKey = key
	}
}
