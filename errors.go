package btuid

import (
	"errors"

	"github.com/viant/btuid/service/allocator"
	"github.com/viant/btuid/service/codec"
)

var (
	// ErrConfiguration is returned by New for settings that cannot produce an allocator.
	ErrConfiguration = errors.New("btuid: invalid configuration")
	// ErrPersistence is returned by New when the stored state cannot be read or created.
	ErrPersistence = errors.New("btuid: persistence failure")

	ErrAddressSpaceExhausted = allocator.ErrAddressSpaceExhausted
	ErrNoTable               = codec.ErrNoTable
	ErrInvalidLength         = codec.ErrInvalidLength
	ErrUnknownSymbol         = codec.ErrUnknownSymbol
)
