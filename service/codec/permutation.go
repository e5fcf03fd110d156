package codec

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// Digest hashes a key into at least Size bytes.
type Digest func(data []byte) []byte

// SHA256 is the default key digest.
func SHA256(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

// BLAKE2b hashes with BLAKE2b-256.
func BLAKE2b(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// DigestByName resolves a configured digest name; empty selects sha256.
func DigestByName(name string) (Digest, error) {
	switch name {
	case "", "sha256":
		return SHA256, nil
	case "blake2b":
		return BLAKE2b, nil
	}
	return nil, fmt.Errorf("unsupported codec digest: %v", name)
}

// Permutation derives the position order for key by a Fisher-Yates shuffle
// of 0..15 driven by the key hash. An empty key yields the identity.
func Permutation(key string, digest Digest) [Size]int {
	ret := identity()
	if key == "" {
		return ret
	}
	if digest == nil {
		digest = SHA256
	}
	hash := digest([]byte(key))
	for i := Size - 1; i > 0; i-- {
		j := int(hash[i]) % (i + 1)
		ret[i], ret[j] = ret[j], ret[i]
	}
	return ret
}

func identity() [Size]int {
	var ret [Size]int
	for i := range ret {
		ret[i] = i
	}
	return ret
}
