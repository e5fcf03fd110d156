package codec

import "errors"

var (
	// ErrInvalidLength is returned when the input is not exactly 16 symbols long.
	ErrInvalidLength = errors.New("codec: input must be 16 symbols")
	// ErrUnknownSymbol is returned for a symbol the table cannot map.
	ErrUnknownSymbol = errors.New("codec: unknown symbol")
	// ErrNoTable is returned when the codec has no substitution table.
	ErrNoTable = errors.New("codec: substitution table not configured")
	// ErrInvalidTable is returned when a persisted table is inconsistent.
	ErrInvalidTable = errors.New("codec: invalid substitution table")
)
