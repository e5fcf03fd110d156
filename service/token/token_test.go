package token

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	next int64
	err  error
}

func (c *counter) Next(ctx context.Context) (*big.Int, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.next++
	return big.NewInt(c.next), nil
}

func TestFormat(t *testing.T) {
	top := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	var testCases = []struct {
		description string
		value       *big.Int
		expect      string
		expectErr   bool
	}{
		{description: "zero", value: big.NewInt(0), expect: "0000000000000000"},
		{description: "padded", value: big.NewInt(255), expect: "00000000000000ff"},
		{description: "max", value: top, expect: "ffffffffffffffff"},
		{description: "overflow", value: new(big.Int).Add(top, big.NewInt(1)), expectErr: true},
		{description: "negative", value: big.NewInt(-1), expectErr: true},
		{description: "nil", expectErr: true},
	}
	for _, testCase := range testCases {
		actual, err := Format(testCase.value)
		if testCase.expectErr {
			assert.Error(t, err, testCase.description)
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.Equal(t, testCase.expect, actual, testCase.description)
	}
}

func TestSplit(t *testing.T) {
	var testCases = []struct {
		token  string
		id     string
		suffix string
	}{
		{token: "00000000000000ff-0123456789abcdef", id: "00000000000000ff", suffix: "0123456789abcdef"},
		{token: "00000000000000ff", id: "00000000000000ff"},
		{token: "a-b-c", id: "a", suffix: "b-c"},
	}
	for _, testCase := range testCases {
		id, suffix := Split(testCase.token)
		assert.Equal(t, testCase.id, id, testCase.token)
		assert.Equal(t, testCase.suffix, suffix, testCase.token)
		assert.Equal(t, testCase.token, Join(id, suffix), testCase.token)
	}
}

func TestService_Issue(t *testing.T) {
	ctx := context.Background()
	pattern := regexp.MustCompile(`^[0-9a-f]{16}-[0-9a-f]{16}$`)

	service := New(&counter{})
	for i := 0; i < 50; i++ {
		token, err := service.Issue(ctx)
		assert.NoError(t, err)
		assert.Len(t, token, 33)
		assert.Regexp(t, pattern, token)
	}

	fixed := New(&counter{}, WithEntropy(bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0, 1, 2, 3})))
	token, err := fixed.Issue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "0000000000000001-deadbeef00010203", token)

	_, err = fixed.Issue(ctx)
	assert.Error(t, err)

	id, err := New(&counter{next: 15}).ID(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "0000000000000010", id)

	boom := errors.New("boom")
	_, err = New(&counter{err: boom}).Issue(ctx)
	assert.True(t, errors.Is(err, boom))
}
