package model

import (
	"encoding/json"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

var decimalPattern = regexp.MustCompile(`^\d+$`)

// Int is an arbitrary-precision integer serialised as a decimal JSON string.
// Native JSON numbers and the legacy "123n" form are accepted on decode.
type Int big.Int

// NewInt copies v into an Int.
func NewInt(v *big.Int) *Int {
	if v == nil {
		return nil
	}
	return (*Int)(new(big.Int).Set(v))
}

// NewInt64 returns v as an Int.
func NewInt64(v int64) *Int {
	return (*Int)(big.NewInt(v))
}

// Big returns a copy of the value.
func (i *Int) Big() *big.Int {
	if i == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(i))
}

func (i *Int) String() string {
	if i == nil {
		return "<nil>"
	}
	return (*big.Int)(i).String()
}

// MarshalJSON implements json.Marshaler
func (i *Int) MarshalJSON() ([]byte, error) {
	return json.Marshal((*big.Int)(i).String())
}

// UnmarshalJSON implements json.Unmarshaler
func (i *Int) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSuffix(text, "n")
	}
	if !decimalPattern.MatchString(text) {
		return fmt.Errorf("invalid decimal integer: %s", data)
	}
	if _, ok := (*big.Int)(i).SetString(text, 10); !ok {
		return fmt.Errorf("invalid decimal integer: %s", data)
	}
	return nil
}

// Record is the persisted form of State plus the optional substitution table.
type Record struct {
	Depth       *Int                `json:"depth"`
	Fanout      *Int                `json:"fanout"`
	ChunkLength *Int                `json:"chunkLength"`
	Cursor      *Int                `json:"cursor"`
	StartOffset *Int                `json:"startOffset"`
	PassCount   *Int                `json:"passCount"`
	Table       map[string][]string `json:"table,omitempty"`
	SavedAt     *time.Time          `json:"savedAt,omitempty"`
}

// NewRecord builds a record from a state snapshot and a forward table.
func NewRecord(state *State, table map[string][]string) *Record {
	ret := &Record{
		Depth:       NewInt64(int64(state.Depth)),
		Fanout:      NewInt64(int64(state.Fanout)),
		ChunkLength: NewInt(state.ChunkLength),
		Cursor:      NewInt(state.Cursor),
		StartOffset: NewInt(state.StartOffset),
		PassCount:   NewInt(state.PassCount),
	}
	if len(table) > 0 {
		ret.Table = make(map[string][]string, len(table))
		for k, v := range table {
			ret.Table[k] = append([]string(nil), v...)
		}
	}
	return ret
}

// State converts the record back into an allocator state.
func (r *Record) State() (*State, error) {
	if r == nil {
		return nil, fmt.Errorf("record was nil")
	}
	depth, err := smallInt("depth", r.Depth)
	if err != nil {
		return nil, err
	}
	fanout, err := smallInt("fanout", r.Fanout)
	if err != nil {
		return nil, err
	}
	ret := &State{
		Depth:       depth,
		Fanout:      fanout,
		ChunkLength: r.ChunkLength.Big(),
		Cursor:      r.Cursor.Big(),
		PassCount:   r.PassCount.Big(),
		StartOffset: r.StartOffset.Big(),
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Encode renders the record as indented JSON.
func (r *Record) Encode() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// DecodeRecord parses a JSON record and validates its state fields.
func DecodeRecord(data []byte) (*Record, error) {
	ret := &Record{}
	if err := json.Unmarshal(data, ret); err != nil {
		return nil, err
	}
	if _, err := ret.State(); err != nil {
		return nil, err
	}
	return ret, nil
}

func smallInt(name string, v *Int) (int, error) {
	if v == nil {
		return 0, fmt.Errorf("%s was missing", name)
	}
	b := (*big.Int)(v)
	if !b.IsInt64() || b.Int64() > int64(^uint32(0)>>1) {
		return 0, fmt.Errorf("%s %s out of range", name, b)
	}
	return int(b.Int64()), nil
}
