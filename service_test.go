package btuid

import (
	"context"
	"errors"
	"math"
	"math/big"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/btuid/model"
	"github.com/viant/btuid/service/allocator"
	"github.com/viant/btuid/service/dao/state/memory"
)

func testConfig(URL string) *Config {
	ret := DefaultConfig()
	ret.URL = URL
	return ret
}

func TestService_IssueToken(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx)
	if !assert.NoError(t, err) {
		return
	}
	pattern := regexp.MustCompile(`^[0-9a-f]{16}-[0-9a-f]{16}$`)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tok, err := srv.IssueToken(ctx)
		assert.NoError(t, err)
		assert.Regexp(t, pattern, tok)
		seen[tok[:16]] = true
	}
	assert.Len(t, seen, 100)
	assert.Equal(t, 100, srv.Stats().Issued)

	id, err := srv.IssueID(ctx)
	assert.NoError(t, err)
	assert.Len(t, id, 16)
	assert.Equal(t, 29, srv.State().Fanout)
}

func TestService_PersistRestore(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	first, err := New(ctx, WithConfig(testConfig("state.json")), WithStateDAO(store))
	if !assert.NoError(t, err) {
		return
	}
	for i := 0; i < 5; i++ {
		_, err := first.IssueRawID(ctx)
		assert.NoError(t, err)
	}
	tok, err := first.IssueToken(ctx)
	assert.NoError(t, err)
	display, err := first.Encode(tok, "secret")
	assert.NoError(t, err)
	assert.NoError(t, first.Save(ctx))
	expect, err := first.IssueRawID(ctx)
	assert.NoError(t, err)

	second, err := New(ctx, WithConfig(testConfig("state.json")), WithStateDAO(store))
	if !assert.NoError(t, err) {
		return
	}
	actual, err := second.IssueRawID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expect.String(), actual.String())

	decoded, err := second.Decode(display, "secret")
	assert.NoError(t, err)
	assert.Equal(t, tok, decoded)
}

func TestService_FileStore(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "state.json")
	srv, err := New(ctx, WithConfig(testConfig(location)))
	if !assert.NoError(t, err) {
		return
	}
	_, err = os.Stat(location)
	assert.NoError(t, err)

	_, err = srv.IssueToken(ctx)
	assert.NoError(t, err)
	assert.NoError(t, srv.Shutdown(ctx))

	data, err := os.ReadFile(location)
	if !assert.NoError(t, err) {
		return
	}
	record, err := model.DecodeRecord(data)
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, "1", record.Cursor.String())
	assert.Len(t, record.Table, 16)
}

func TestService_FileStoreRestart(t *testing.T) {
	ctx := context.Background()
	config := testConfig(filepath.Join(t.TempDir(), "state.json"))
	issued := map[string]bool{}
	var expect *big.Int
	for round := 0; round < 3; round++ {
		srv, err := New(ctx, WithConfig(config))
		if !assert.NoError(t, err) {
			return
		}
		value, err := srv.IssueRawID(ctx)
		assert.NoError(t, err)
		if expect != nil {
			assert.Equal(t, expect.String(), value.String(), round)
		}
		for i := 0; i < 4; i++ {
			assert.False(t, issued[value.String()], value.String())
			issued[value.String()] = true
			if value, err = srv.IssueRawID(ctx); !assert.NoError(t, err) {
				return
			}
		}
		assert.False(t, issued[value.String()], value.String())
		issued[value.String()] = true
		assert.NoError(t, srv.Shutdown(ctx))
		expect, err = allocator.Next(srv.State())
		assert.NoError(t, err)
	}
	assert.Len(t, issued, 15)
}

func TestService_SQLiteStore(t *testing.T) {
	ctx := context.Background()
	config := testConfig(filepath.Join(t.TempDir(), "state.db"))
	config.Store = StoreSQLite
	first, err := New(ctx, WithConfig(config))
	if !assert.NoError(t, err) {
		return
	}
	_, err = first.IssueRawID(ctx)
	assert.NoError(t, err)
	assert.NoError(t, first.Shutdown(ctx))
	expect := first.State()

	second, err := New(ctx, WithConfig(config))
	if !assert.NoError(t, err) {
		return
	}
	defer second.Shutdown(ctx)
	assert.Equal(t, expect.Cursor.String(), second.State().Cursor.String())
}

func TestService_MalformedState(t *testing.T) {
	ctx := context.Background()
	location := filepath.Join(t.TempDir(), "state.json")
	assert.NoError(t, os.WriteFile(location, []byte(`{"depth": "one"}`), 0o644))
	_, err := New(ctx, WithConfig(testConfig(location)))
	assert.True(t, errors.Is(err, ErrPersistence))
}

func TestService_ExplicitState(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	state := model.NewState(2, big.NewInt(0), big.NewInt(1000))
	state.Cursor.SetInt64(2)
	srv, err := New(ctx, WithConfig(testConfig("state.json")), WithStateDAO(store), WithExplicitState(state))
	if !assert.NoError(t, err) {
		return
	}
	value, err := srv.IssueRawID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, int64(3000), value.Int64())

	_, err = store.Load(ctx, "state.json")
	assert.Error(t, err)
}

func TestService_ExplicitStateKeepsTable(t *testing.T) {
	ctx := context.Background()
	config := testConfig(filepath.Join(t.TempDir(), "state.json"))
	first, err := New(ctx, WithConfig(config))
	if !assert.NoError(t, err) {
		return
	}
	tok, err := first.IssueToken(ctx)
	assert.NoError(t, err)
	display, err := first.Encode(tok, "k")
	assert.NoError(t, err)
	assert.NoError(t, first.Shutdown(ctx))

	explicit, err := New(ctx, WithConfig(config), WithExplicitState(first.State()))
	if !assert.NoError(t, err) {
		return
	}
	assert.Equal(t, first.Record().Table, explicit.Record().Table)
	assert.NoError(t, explicit.Shutdown(ctx))

	restored, err := New(ctx, WithConfig(config))
	if !assert.NoError(t, err) {
		return
	}
	defer restored.Shutdown(ctx)
	decoded, err := restored.Decode(display, "k")
	assert.NoError(t, err)
	assert.Equal(t, tok, decoded)
}

func TestService_Codec(t *testing.T) {
	ctx := context.Background()
	srv, err := New(ctx, WithRandom(rand.New(rand.NewPCG(1, 2))), WithDefaultKey("default"))
	if !assert.NoError(t, err) {
		return
	}
	tok, err := srv.IssueToken(ctx)
	assert.NoError(t, err)

	for _, key := range []string{"", "other"} {
		display, err := srv.Encode(tok, key)
		assert.NoError(t, err)
		assert.Equal(t, tok[16:], string([]rune(display)[16:]))
		decoded, err := srv.Decode(display, key)
		assert.NoError(t, err)
		assert.Equal(t, tok, decoded)
	}

	bare, err := srv.IssueID(ctx)
	assert.NoError(t, err)
	display, err := srv.Encode(bare, "k")
	assert.NoError(t, err)
	decoded, err := srv.Decode(display, "k")
	assert.NoError(t, err)
	assert.Equal(t, bare, decoded)

	_, err = srv.Decode("short-0123456789abcdef", "")
	assert.True(t, errors.Is(err, ErrInvalidLength))

	config := DefaultConfig()
	config.Codec.Enabled = false
	plain, err := New(ctx, WithConfig(config))
	if !assert.NoError(t, err) {
		return
	}
	_, err = plain.Encode(tok, "")
	assert.True(t, errors.Is(err, ErrNoTable))
}

func TestService_Boundaries(t *testing.T) {
	ctx := context.Background()

	config := DefaultConfig()
	config.DisplacementRate = 0
	srv, err := New(ctx, WithConfig(config))
	if assert.NoError(t, err) {
		assert.Equal(t, "0", srv.State().StartOffset.String())
	}

	config = DefaultConfig()
	config.DisplacementRate = 1000
	srv, err = New(ctx, WithConfig(config))
	if assert.NoError(t, err) {
		_, err = srv.IssueToken(ctx)
		assert.True(t, errors.Is(err, ErrAddressSpaceExhausted))
	}
}

func TestNew_Configuration(t *testing.T) {
	var testCases = []struct {
		description string
		mutate      func(c *Config)
	}{
		{description: "negative fanout", mutate: func(c *Config) { c.Layout.Fanout = -1 }},
		{description: "zero overhead", mutate: func(c *Config) { *c.Layout = model.Layout{PageSize: 100} }},
		{description: "rate out of range", mutate: func(c *Config) { c.DisplacementRate = 1001 }},
		{description: "bad start value", mutate: func(c *Config) { c.StartValue = "abc" }},
		{description: "bad store", mutate: func(c *Config) { c.Store = "redis" }},
		{description: "bad digest", mutate: func(c *Config) { c.Codec.Digest = "md5" }},
		{description: "fanout beyond the space", mutate: func(c *Config) { c.Layout.Fanout = 1 << 40 }},
		{description: "multiplied fanout overflow", mutate: func(c *Config) { c.FanoutMultiplier = math.MaxInt }},
		{description: "no depth above offset", mutate: func(c *Config) {
			c.Layout.Fanout = 1 << 30
			c.DisplacementRate = 999
		}},
	}
	for _, testCase := range testCases {
		config := DefaultConfig()
		testCase.mutate(config)
		_, err := New(context.Background(), WithConfig(config))
		assert.True(t, errors.Is(err, ErrConfiguration), testCase.description)
	}
}
