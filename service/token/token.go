// Package token renders allocated values as fixed width identifiers and
// combines them with a random suffix into the external token form.
package token

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	// IDLength is the width of the hex identifier.
	IDLength = 16
	// SuffixLength is the width of the random hex suffix.
	SuffixLength = 16
	// Separator joins identifier and suffix.
	Separator = "-"
)

var maxValue = new(big.Int).Lsh(big.NewInt(1), 4*IDLength)

// Source provides the values to format.
type Source interface {
	Next(ctx context.Context) (*big.Int, error)
}

// Format renders value as zero padded lowercase hex.
func Format(value *big.Int) (string, error) {
	if value == nil || value.Sign() < 0 || value.Cmp(maxValue) >= 0 {
		return "", fmt.Errorf("value %v does not fit in %d hex digits", value, IDLength)
	}
	return fmt.Sprintf("%0*x", IDLength, value), nil
}

// Split separates a token into identifier and suffix on the first separator.
// The suffix is empty for a bare identifier.
func Split(token string) (id, suffix string) {
	id, suffix, _ = strings.Cut(token, Separator)
	return id, suffix
}

// Join reassembles an identifier and optional suffix.
func Join(id, suffix string) string {
	if suffix == "" {
		return id
	}
	return id + Separator + suffix
}

// Service issues tokens from a Source.
type Service struct {
	source  Source
	entropy io.Reader
}

// Option configures the token service
type Option func(*Service)

// WithEntropy sets the reader supplying random suffix bytes
func WithEntropy(reader io.Reader) Option {
	return func(s *Service) {
		s.entropy = reader
	}
}

// New creates a token service over source
func New(source Source, options ...Option) *Service {
	ret := &Service{source: source}
	for _, opt := range options {
		opt(ret)
	}
	if ret.entropy == nil {
		ret.entropy = rand.Reader
	}
	return ret
}

// ID returns the next bare identifier.
func (s *Service) ID(ctx context.Context) (string, error) {
	value, err := s.source.Next(ctx)
	if err != nil {
		return "", err
	}
	return Format(value)
}

// Issue returns the next identifier followed by a random suffix.
func (s *Service) Issue(ctx context.Context) (string, error) {
	id, err := s.ID(ctx)
	if err != nil {
		return "", err
	}
	suffix, err := s.Suffix()
	if err != nil {
		return "", err
	}
	return Join(id, suffix), nil
}

// Suffix returns SuffixLength random hex characters.
func (s *Service) Suffix() (string, error) {
	buf := make([]byte, SuffixLength/2)
	if _, err := io.ReadFull(s.entropy, buf); err != nil {
		return "", fmt.Errorf("failed to read token entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
