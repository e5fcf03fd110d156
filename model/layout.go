package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLayout is returned when a layout cannot produce a positive fanout.
var ErrInvalidLayout = errors.New("model: invalid layout")

// Layout describes a notional fixed-size index page. The fanout of the
// allocator tree is the number of entries such a page can hold.
type Layout struct {
	PageSize      int `json:"pageSize" yaml:"pageSize"`
	KeySize       int `json:"keySize" yaml:"keySize"`
	IDSize        int `json:"idSize" yaml:"idSize"`
	EntryMetaSize int `json:"entryMetaSize" yaml:"entryMetaSize"`
	PointerSize   int `json:"pointerSize" yaml:"pointerSize"`
	PaddingSize   int `json:"paddingSize" yaml:"paddingSize"`
	// Fanout, when positive, is used as is and the sizes are ignored.
	Fanout int `json:"fanout,omitempty" yaml:"fanout,omitempty"`
}

// DefaultLayout returns an 8KiB page with 16 byte keys.
func DefaultLayout() *Layout {
	return &Layout{
		PageSize:      8192,
		KeySize:       16,
		IDSize:        6,
		EntryMetaSize: 4,
		PointerSize:   4,
		PaddingSize:   2,
	}
}

// Overhead returns the per-entry byte overhead.
func (l *Layout) Overhead() int {
	return l.KeySize + l.IDSize + l.EntryMetaSize + l.PointerSize + l.PaddingSize
}

// ResolveFanout returns the explicit fanout or derives it from the sizes.
func (l *Layout) ResolveFanout() (int, error) {
	if l == nil {
		return 0, fmt.Errorf("%w: layout was nil", ErrInvalidLayout)
	}
	if l.Fanout > 0 {
		return l.Fanout, nil
	}
	if l.Fanout < 0 {
		return 0, fmt.Errorf("%w: fanout %d", ErrInvalidLayout, l.Fanout)
	}
	for name, size := range map[string]int{
		"pageSize":      l.PageSize,
		"keySize":       l.KeySize,
		"idSize":        l.IDSize,
		"entryMetaSize": l.EntryMetaSize,
		"pointerSize":   l.PointerSize,
		"paddingSize":   l.PaddingSize,
	} {
		if size < 0 {
			return 0, fmt.Errorf("%w: %s %d", ErrInvalidLayout, name, size)
		}
	}
	overhead := l.Overhead()
	if overhead == 0 {
		return 0, fmt.Errorf("%w: zero entry overhead", ErrInvalidLayout)
	}
	entryOverhead := float64(l.PageSize) / float64(overhead)
	fanout := int(math.Floor(float64(l.PageSize-overhead) / (float64(l.KeySize+l.IDSize) + entryOverhead)))
	if fanout <= 0 {
		return 0, fmt.Errorf("%w: page %d resolves to fanout %d", ErrInvalidLayout, l.PageSize, fanout)
	}
	return fanout, nil
}
