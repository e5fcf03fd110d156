package codec

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Size is the number of symbols in an identifier.
const Size = 16

// Alphabet lists the canonical hex symbols in value order.
const Alphabet = "0123456789abcdef"

// DefaultPool returns the glyphs available as alternates to the canonical
// symbols.
func DefaultPool() []rune {
	var ret []rune
	for r := 'g'; r <= 'z'; r++ {
		ret = append(ret, r)
	}
	for r := 'G'; r <= 'Z'; r++ {
		ret = append(ret, r)
	}
	for r := 'A'; r <= 'F'; r++ {
		ret = append(ret, r)
	}
	return append(ret, []rune("£¥€§©®¤µ")...)
}

// Rand is the random source used to build tables and pick glyphs.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// DefaultRand returns a Rand backed by the math/rand/v2 global source.
func DefaultRand() Rand {
	return globalRand{}
}

// Table maps every canonical symbol to its equivalent glyphs and back.
type Table struct {
	forward map[rune][]rune
	inverse map[rune]rune
}

// Build generates a table: canonical symbols are visited in random order and
// each takes 2 or 3 random glyphs from what is left of pool.
func Build(pool []rune, rnd Rand) *Table {
	if rnd == nil {
		rnd = DefaultRand()
	}
	remaining := slices.Clone(pool)
	unassigned := []rune(Alphabet)
	ret := &Table{forward: map[rune][]rune{}, inverse: map[rune]rune{}}
	for _, symbol := range unassigned {
		ret.forward[symbol] = []rune{symbol}
		ret.inverse[symbol] = symbol
	}
	for len(unassigned) > 0 && len(remaining) > 0 {
		i := rnd.IntN(len(unassigned))
		symbol := unassigned[i]
		unassigned = slices.Delete(unassigned, i, i+1)

		count := min(2+rnd.IntN(2), len(remaining))
		for ; count > 0; count-- {
			j := rnd.IntN(len(remaining))
			glyph := remaining[j]
			remaining = slices.Delete(remaining, j, j+1)
			ret.forward[symbol] = append(ret.forward[symbol], glyph)
			ret.inverse[glyph] = symbol
		}
	}
	return ret
}

// NewTable restores a persisted table. Every canonical symbol must lead its
// own list and no glyph may belong to two lists.
func NewTable(forward map[string][]string) (*Table, error) {
	ret := &Table{forward: map[rune][]rune{}, inverse: map[rune]rune{}}
	for _, symbol := range Alphabet {
		list, ok := forward[string(symbol)]
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("%w: missing symbol %q", ErrInvalidTable, symbol)
		}
		for i, item := range list {
			glyph := []rune(item)
			if len(glyph) != 1 {
				return nil, fmt.Errorf("%w: glyph %q of %q is not a single symbol", ErrInvalidTable, item, symbol)
			}
			if i == 0 && glyph[0] != symbol {
				return nil, fmt.Errorf("%w: list of %q must start with itself", ErrInvalidTable, symbol)
			}
			if i > 0 && isCanonical(glyph[0]) {
				return nil, fmt.Errorf("%w: canonical %q used as glyph of %q", ErrInvalidTable, glyph[0], symbol)
			}
			if owner, ok := ret.inverse[glyph[0]]; ok {
				return nil, fmt.Errorf("%w: glyph %q shared by %q and %q", ErrInvalidTable, glyph[0], owner, symbol)
			}
			ret.inverse[glyph[0]] = symbol
			ret.forward[symbol] = append(ret.forward[symbol], glyph[0])
		}
	}
	if len(forward) != Size {
		return nil, fmt.Errorf("%w: expected %d symbols, got %d", ErrInvalidTable, Size, len(forward))
	}
	return ret, nil
}

// Forward returns the persistable form of the table.
func (t *Table) Forward() map[string][]string {
	ret := make(map[string][]string, len(t.forward))
	for symbol, glyphs := range t.forward {
		list := make([]string, len(glyphs))
		for i, glyph := range glyphs {
			list[i] = string(glyph)
		}
		ret[string(symbol)] = list
	}
	return ret
}

// Equivalents returns the glyphs a canonical symbol may be written as.
func (t *Table) Equivalents(symbol rune) []rune {
	return slices.Clone(t.forward[symbol])
}

// Canonical returns the hex symbol glyph stands for.
func (t *Table) Canonical(glyph rune) (rune, bool) {
	ret, ok := t.inverse[glyph]
	return ret, ok
}

func isCanonical(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f')
}
