package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func intBytes(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func TestHashes(t *testing.T) {
	tests := []struct {
		name      string
		key       []byte
		primary   int32
		secondary int32
	}{
		{"empty", []byte{}, 1488975433, 1212507733},
		{"single byte", []byte("a"), 984606654, 1820368128},
		{"ascii string", []byte("abc"), 1763315781, 1732721531},
		{"five bytes", []byte("depot"), 1261398979, 156409765},
		{"eleven bytes", []byte("hello world"), 159825523, 624334549},
		{"int 42 seeds with its own value", intBytes(42), 1185993536, 1540847051},
		{"int 0", intBytes(0), 0, 1868811781},
		{"int 3355440", intBytes(3355440), 1397607008, 830595243},
		{"four bytes ascending", []byte{1, 2, 3, 4}, 1950922517, 1271678251},
		{"four bytes negative seed", []byte{0xff, 0xff, 0xff, 0xff}, 1757620089, 1655780545},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.primary, PrimaryHash(tt.key), "primary")
			assert.Equal(t, tt.secondary, SecondaryHash(tt.key), "secondary")
		})
	}
}

func TestHashesAreDeterministicAndNonNegative(t *testing.T) {
	for i := int32(-1000); i < 1000; i++ {
		key := intBytes(i * 7919)
		p1, p2 := PrimaryHash(key), PrimaryHash(append([]byte(nil), key...))
		s1, s2 := SecondaryHash(key), SecondaryHash(append([]byte(nil), key...))

		assert.Equal(t, p1, p2)
		assert.Equal(t, s1, s2)
		assert.GreaterOrEqual(t, p1, int32(0))
		assert.GreaterOrEqual(t, s1, int32(0))
	}
}

func TestSecondaryHashFoldsLinearly(t *testing.T) {
	// 37 = {37,0,0,0} and 256 = {0,1,0,0} fold to the same accumulator.
	assert.Equal(t, SecondaryHash(intBytes(37)), SecondaryHash(intBytes(256)))
	assert.NotEqual(t, PrimaryHash(intBytes(37)), PrimaryHash(intBytes(256)))
}

func TestValidateSecondHash(t *testing.T) {
	key := []byte("language")
	want := SecondaryHash(key)

	t.Run("matching hash", func(t *testing.T) {
		assert.True(t, ValidateSecondHash(key, want))
	})

	t.Run("mismatched hash", func(t *testing.T) {
		assert.False(t, ValidateSecondHash(key, want+1))
	})
}
