package core

import (
	"encoding/binary"
	"fmt"
)

// Bucket counts a depot may be created with. Each entry is prime and the
// largest still leaves room for records below MaxRecordOffset.
var primeCapacities = []int64{
	1, 2, 3, 7, 13, 31, 61, 103, 211, 509, 1021, 2039, 4093, 8191, 16381,
	32749, 65521, 131071, 262139, 524287, 1048573, 2097143, 4194301, 8388593,
	16777213, 33554393, 67108859, 134217689, 268435399,
}

// NearestPrimeCapacity returns the first bucket count in the prime table that
// is at least requested, or the largest one if requested is beyond the table.
func NearestPrimeCapacity(requested int64) (int64, error) {
	if requested <= 0 {
		return 0, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, requested)
	}

	for _, p := range primeCapacities {
		if p >= requested {
			return p, nil
		}
	}
	return primeCapacities[len(primeCapacities)-1], nil
}

// bucketDirectory is the in-memory copy of the on-disk bucket section. A slot
// holds the offset of its chain's root record, or 0 for an empty chain.
//
// Only roots are mirrored. Nodes linked below a root are written to disk and
// never tracked here.
type bucketDirectory []uint32

func decodeBuckets(data []byte) bucketDirectory {
	b := make(bucketDirectory, len(data)/BucketSlotBytes)
	for i := range b {
		b[i] = binary.LittleEndian.Uint32(data[i*BucketSlotBytes:])
	}
	return b
}

// index maps a (non-negative) primary hash to its slot.
func (b bucketDirectory) index(primary int32) int64 {
	return int64(primary) % int64(len(b))
}

func (b bucketDirectory) used() int64 {
	var n int64
	for _, root := range b {
		if root != 0 {
			n++
		}
	}
	return n
}

// slotAt reports which slot, if any, lives at absolute position at.
func (b bucketDirectory) slotAt(at int64) (int64, bool) {
	if at < OffsetBuckets {
		return 0, false
	}
	i := (at - OffsetBuckets) / BucketSlotBytes
	if i >= int64(len(b)) || bucketOffset(i) != at {
		return 0, false
	}
	return i, true
}

// bucketOffset is the absolute position of slot index.
func bucketOffset(index int64) int64 {
	return OffsetBuckets + index*BucketSlotBytes
}
