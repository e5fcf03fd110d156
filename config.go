package btuid

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/viant/afs"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/allocator"
	"github.com/viant/btuid/service/codec"
	"gopkg.in/yaml.v3"
)

// Store backends for the persisted state
const (
	StoreFS     = "fs"
	StoreSQLite = "sqlite"
	StoreMemory = "memory"
)

// Config is a serialisable representation of the service configuration. It
// can be populated from JSON or YAML; LoadConfig starts from DefaultConfig so
// omitted fields keep their defaults.
type Config struct {
	Layout           *model.Layout `json:"layout,omitempty" yaml:"layout,omitempty"`
	FanoutMultiplier int           `json:"fanoutMultiplier" yaml:"fanoutMultiplier"`
	StartValue       string        `json:"startValue,omitempty" yaml:"startValue,omitempty"`
	DisplacementRate int           `json:"displacementRate" yaml:"displacementRate"`
	// URL is the persisted state location; empty disables durability.
	URL                     string        `json:"url,omitempty" yaml:"url,omitempty"`
	Store                   string        `json:"store,omitempty" yaml:"store,omitempty"`
	SnapshotIntervalSeconds int           `json:"snapshotIntervalSeconds" yaml:"snapshotIntervalSeconds"`
	Codec                   CodecConfig   `json:"codec" yaml:"codec"`
	Tracing                 TracingConfig `json:"tracing" yaml:"tracing"`
}

// CodecConfig controls the display transform
type CodecConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Digest  string `json:"digest,omitempty" yaml:"digest,omitempty"`
	// KeyURL locates an encrypted secret holding the default passphrase.
	KeyURL    string `json:"keyURL,omitempty" yaml:"keyURL,omitempty"`
	KeyCipher string `json:"keyCipher,omitempty" yaml:"keyCipher,omitempty"`
}

// TracingConfig controls the stdout OpenTelemetry exporter
type TracingConfig struct {
	Enabled     bool   `json:"enabled" yaml:"enabled"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
	OutputFile  string `json:"outputFile,omitempty" yaml:"outputFile,omitempty"`
}

// DefaultConfig returns a Config populated with the default layout, a 1%
// displacement, daily snapshots and the codec enabled.
func DefaultConfig() *Config {
	return &Config{
		Layout:                  model.DefaultLayout(),
		FanoutMultiplier:        1,
		DisplacementRate:        10,
		Store:                   StoreFS,
		SnapshotIntervalSeconds: 86400,
		Codec:                   CodecConfig{Enabled: true, Digest: "sha256"},
		Tracing:                 TracingConfig{ServiceName: "btuid"},
	}
}

// LoadConfig reads a YAML (or JSON) configuration from any afs supported URL.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %v: %v", ErrConfiguration, URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var errs []error
	fanout, fanoutErr := c.Fanout()
	if fanoutErr != nil {
		errs = append(errs, fanoutErr)
	}
	startOffset, offsetErr := c.StartOffset()
	if offsetErr != nil {
		errs = append(errs, offsetErr)
	}
	// a full displacement is allowed to leave no room; it exhausts on first issue
	if fanoutErr == nil && offsetErr == nil && c.DisplacementRate != 1000 && allocator.MaxDepth(fanout, startOffset) == 0 {
		errs = append(errs, fmt.Errorf("fanout %d leaves no depth above start offset %s", fanout, startOffset))
	}
	switch c.Store {
	case "", StoreFS, StoreSQLite, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported store: %v", c.Store))
	}
	if c.SnapshotIntervalSeconds < 0 {
		errs = append(errs, fmt.Errorf("snapshotIntervalSeconds must be >= 0"))
	}
	if _, err := codec.DigestByName(c.Codec.Digest); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// Fanout resolves the layout fanout scaled by FanoutMultiplier.
func (c *Config) Fanout() (int, error) {
	layout := c.Layout
	if layout == nil {
		layout = model.DefaultLayout()
	}
	fanout, err := layout.ResolveFanout()
	if err != nil {
		return 0, err
	}
	multiplier := c.FanoutMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	if multiplier < 0 {
		return 0, fmt.Errorf("fanoutMultiplier %d must be >= 1", multiplier)
	}
	if fanout > allocator.MaxFanout/multiplier {
		return 0, fmt.Errorf("fanout %d x %d exceeds %d", fanout, multiplier, allocator.MaxFanout)
	}
	return fanout * multiplier, nil
}

// StartOffset returns the first value below which nothing is allocated.
func (c *Config) StartOffset() (*big.Int, error) {
	startValue := new(big.Int)
	if c.StartValue != "" {
		if _, ok := startValue.SetString(c.StartValue, 10); !ok {
			return nil, fmt.Errorf("invalid startValue: %v", c.StartValue)
		}
	}
	return allocator.StartOffset(startValue, c.DisplacementRate)
}

// SnapshotInterval returns the snapshot period; zero selects the daily default.
func (c *Config) SnapshotInterval() time.Duration {
	if c.SnapshotIntervalSeconds <= 0 {
		return allocator.DefaultConfig().SnapshotInterval
	}
	return time.Duration(c.SnapshotIntervalSeconds) * time.Second
}
