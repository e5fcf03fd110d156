package allocator

import "errors"

// ErrAddressSpaceExhausted is returned once no depth can provide another
// value without colliding with one already handed out.
var ErrAddressSpaceExhausted = errors.New("allocator: address space exhausted")
