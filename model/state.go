package model

import (
	"fmt"
	"math/big"
)

// State is the mutable allocator record. It is owned by exactly one
// allocator; other readers work on a Clone.
type State struct {
	Depth       int
	Fanout      int
	ChunkLength *big.Int
	Cursor      *big.Int
	PassCount   *big.Int
	StartOffset *big.Int
}

// NewState returns a depth-one state positioned before the first chunk.
func NewState(fanout int, startOffset, chunkLength *big.Int) *State {
	return &State{
		Depth:       1,
		Fanout:      fanout,
		ChunkLength: new(big.Int).Set(chunkLength),
		Cursor:      new(big.Int),
		PassCount:   new(big.Int),
		StartOffset: new(big.Int).Set(startOffset),
	}
}

// Clone returns a deep copy.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	return &State{
		Depth:       s.Depth,
		Fanout:      s.Fanout,
		ChunkLength: cloneInt(s.ChunkLength),
		Cursor:      cloneInt(s.Cursor),
		PassCount:   cloneInt(s.PassCount),
		StartOffset: cloneInt(s.StartOffset),
	}
}

// Validate checks that every field is present and within range.
func (s *State) Validate() error {
	if s == nil {
		return fmt.Errorf("state was nil")
	}
	if s.Depth < 1 {
		return fmt.Errorf("depth %d must be >= 1", s.Depth)
	}
	if s.Fanout < 1 {
		return fmt.Errorf("fanout %d must be >= 1", s.Fanout)
	}
	for name, v := range map[string]*big.Int{
		"chunkLength": s.ChunkLength,
		"cursor":      s.Cursor,
		"passCount":   s.PassCount,
		"startOffset": s.StartOffset,
	} {
		if v == nil {
			return fmt.Errorf("%s was missing", name)
		}
		if v.Sign() < 0 {
			return fmt.Errorf("%s %s must not be negative", name, v)
		}
	}
	return nil
}

func cloneInt(v *big.Int) *big.Int {
	if v == nil {
		return nil
	}
	return new(big.Int).Set(v)
}
