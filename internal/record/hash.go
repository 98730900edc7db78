package record

import (
	"encoding/binary"
	"math"
)

const (
	primarySeed       int32 = 751
	primaryFold       int32 = 31
	primaryMultiplier int32 = 87767623

	secondarySeed       int32 = 19780211
	secondaryFold       int32 = 37
	secondaryMultiplier int32 = 43321879
)

// PrimaryHash selects the bucket of a key. A 4 byte key seeds the fold with
// its own little-endian value; any other length seeds it with 751.
//
// All arithmetic wraps at 32 bits, the result is masked to be non-negative.
func PrimaryHash(key []byte) int32 {
	acc := primarySeed
	if len(key) == 4 {
		acc = int32(binary.LittleEndian.Uint32(key))
	}
	for _, b := range key {
		acc = acc*primaryFold + int32(b)
	}
	return (acc * primaryMultiplier) & math.MaxInt32
}

// SecondaryHash orders records inside a bucket's collision tree. It folds the
// key bytes last to first.
func SecondaryHash(key []byte) int32 {
	acc := secondarySeed
	for i := len(key) - 1; i >= 0; i-- {
		acc = acc*secondaryFold + int32(key[i])
	}
	return (acc * secondaryMultiplier) & math.MaxInt32
}

// ValidateSecondHash reports whether stored matches the hash recomputed from key.
func ValidateSecondHash(key []byte, stored int32) bool {
	return SecondaryHash(key) == stored
}
