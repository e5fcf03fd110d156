package codec

import "fmt"

// SubstituteEncode writes each hex symbol of hex16 as one of its equivalent
// glyphs chosen by rnd.
func SubstituteEncode(table *Table, hex16 string, rnd Rand) (string, error) {
	return KeyedEncode(table, hex16, identity(), rnd)
}

// SubstituteDecode maps every glyph of cipher16 back to its hex symbol.
func SubstituteDecode(table *Table, cipher16 string) (string, error) {
	return KeyedDecode(table, cipher16, identity())
}

// KeyedEncode reorders hex16 by perm and substitutes every symbol in the same
// pass: out[i] = sub(in[perm[i]]).
func KeyedEncode(table *Table, hex16 string, perm [Size]int, rnd Rand) (string, error) {
	if table == nil {
		return "", ErrNoTable
	}
	if rnd == nil {
		rnd = DefaultRand()
	}
	input := []rune(hex16)
	if len(input) != Size {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, len(input))
	}
	for i, r := range input {
		if !isCanonical(r) {
			return "", fmt.Errorf("%w: %q at %d is not a hex digit", ErrUnknownSymbol, r, i)
		}
	}
	output := make([]rune, Size)
	for i := range output {
		glyphs := table.forward[input[perm[i]]]
		output[i] = glyphs[rnd.IntN(len(glyphs))]
	}
	return string(output), nil
}

// KeyedDecode inverts KeyedEncode for the same perm.
func KeyedDecode(table *Table, cipher16 string, perm [Size]int) (string, error) {
	if table == nil {
		return "", ErrNoTable
	}
	input := []rune(cipher16)
	if len(input) != Size {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, len(input))
	}
	output := make([]rune, Size)
	for i, glyph := range input {
		symbol, ok := table.inverse[glyph]
		if !ok {
			return "", fmt.Errorf("%w: %q at %d", ErrUnknownSymbol, glyph, i)
		}
		output[perm[i]] = symbol
	}
	return string(output), nil
}
