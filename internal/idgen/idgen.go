package idgen

import "github.com/google/uuid"

// NewFunc generates an instance identifier; replace it in tests for stable output.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new instance identifier.
func New() string { return NewFunc() }
