package bench

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

type Workload string

const (
	Load       Workload = "load"
	ReadHeavy  Workload = "read-heavy (90/10)"
	WriteHeavy Workload = "write-heavy (10/90)"
)

// Key returns the 4 byte little-endian key used for index i, the same bytes
// an integer depot key has.
func Key(i int) []byte {
	return binary.LittleEndian.AppendUint32(nil, uint32(int32(i)))
}

// Value returns a small value that differs per round so overwrites are real.
func Value(i, round int) []byte {
	return []byte(fmt.Sprintf("v%d-%d", i, round))
}

// Execute runs ops operations of w against s over the key space
// [0, keys). Load ignores rng and writes every key once in order.
func Execute(s Store, w Workload, ops, keys int, rng *rand.Rand) error {
	if w == Load {
		for i := 0; i < keys; i++ {
			if err := s.Put(Key(i), Value(i, 0)); err != nil {
				return fmt.Errorf("%s: put %d: %w", w, i, err)
			}
		}
		return nil
	}

	readShare := 90
	if w == WriteHeavy {
		readShare = 10
	}

	for op := 0; op < ops; op++ {
		choice := rng.Intn(100)
		i := rng.Intn(keys)

		if choice < readShare {
			if _, _, err := s.Get(Key(i)); err != nil {
				return fmt.Errorf("%s: get %d: %w", w, i, err)
			}
			continue
		}
		if err := s.Put(Key(i), Value(i, op+1)); err != nil {
			return fmt.Errorf("%s: put %d: %w", w, i, err)
		}
	}
	return nil
}
