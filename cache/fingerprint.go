package cache

import (
	"encoding/json"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Fingerprint derives a deterministic cache key from an item's content.
//
// The item is serialized with encoding/json, which is canonical for this
// purpose: struct fields serialize in declaration order and map keys are
// sorted, so equal values always produce equal bytes. The serialization is
// then hashed with xxh3-128 into a fixed-width hex string, so unequal values
// collide only if the 128-bit hashes collide.
//
// Values that cannot be marshaled (channels, funcs, cyclic structures) return
// an error; the engine processes such items uncached.
func Fingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}

	sum := xxh3.Hash128(data)
	return fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo), nil
}
