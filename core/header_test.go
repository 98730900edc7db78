package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderEncodeDecode(t *testing.T) {
	h := Header{
		ByteOrder:    LittleEndian,
		Version:      Version,
		WrapperFlags: 3,
		FileSize:     16500,
		BucketCount:  4093,
		RecordCount:  2,
	}

	raw := h.encode()
	require.Len(t, raw, HeaderSizeBytes)

	assert.Equal(t, []byte("[depot]\n\f\x00\x00\x00"), raw[:12])
	assert.Equal(t, []byte("14\x00\x00"), raw[12:16])
	assert.Equal(t, []byte{0xFD, 0x0F, 0, 0, 0, 0, 0, 0}, raw[32:40])

	got, err := decodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, h, got)
	assert.EqualValues(t, 48+4093*4, got.RecordsStart())
}

func TestDecodeHeader_Formats(t *testing.T) {
	valid := Header{Version: Version, BucketCount: 1}.encode()

	bigEndian := append([]byte(nil), valid...)
	copy(bigEndian, MagicBigEndian)

	unknown := append([]byte(nil), valid...)
	copy(unknown, "[hash]\n\f")

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"big endian", bigEndian, ErrUnsupportedFormat},
		{"unknown magic", unknown, ErrUnknownFormat},
		{"shorter than the magic", []byte("[dep"), ErrUnknownFormat},
		{"empty", nil, ErrUnknownFormat},
		{"magic only", valid[:20], ErrCorruption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeHeader(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestEndiannessString(t *testing.T) {
	assert.Equal(t, "little-endian", LittleEndian.String())
	assert.Equal(t, "big-endian", BigEndian.String())
}
