package codec

// Codec bundles a table with the random source and key digest it encodes with.
type Codec struct {
	table  *Table
	rand   Rand
	digest Digest
}

// Option configures a Codec
type Option func(*Codec)

// WithRand sets the random source used to pick glyphs
func WithRand(rnd Rand) Option {
	return func(c *Codec) {
		c.rand = rnd
	}
}

// WithDigest sets the digest used to derive key permutations
func WithDigest(digest Digest) Option {
	return func(c *Codec) {
		c.digest = digest
	}
}

// New creates a codec over table
func New(table *Table, options ...Option) *Codec {
	ret := &Codec{table: table}
	for _, opt := range options {
		opt(ret)
	}
	if ret.rand == nil {
		ret.rand = DefaultRand()
	}
	if ret.digest == nil {
		ret.digest = SHA256
	}
	return ret
}

// Table returns the substitution table
func (c *Codec) Table() *Table {
	return c.table
}

// Encode obfuscates a 16 digit hex identifier, reordered by key when set.
func (c *Codec) Encode(hex16, key string) (string, error) {
	return KeyedEncode(c.table, hex16, Permutation(key, c.digest), c.rand)
}

// Decode restores the hex identifier produced by Encode with the same key.
func (c *Codec) Decode(cipher16, key string) (string, error) {
	return KeyedDecode(c.table, cipher16, Permutation(key, c.digest))
}
