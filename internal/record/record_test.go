package record

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-depot/stream"
)

func TestEncodeDecodeHeader(t *testing.T) {
	original := Header{
		Flags:       3,
		SecondHash:  SecondaryHash([]byte("language")),
		KeySize:     8,
		ValueSize:   2,
		PaddingSize: 6,
		LeftChild:   4096,
		RightChild:  8192,
	}

	encoded, err := EncodeHeader(&original)
	require.NoError(t, err)
	require.Len(t, encoded, HeaderSizeBytes)

	decoded, err := DecodeHeader(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
	assert.Equal(t, int64(16), decoded.Size())
	assert.Equal(t, int64(HeaderSizeBytes+16), decoded.TotalSize())
}

func TestDecodeHeaderErrorsOnTruncatedData(t *testing.T) {
	encoded, err := EncodeHeader(&Header{KeySize: 3, ValueSize: 2})
	require.NoError(t, err)

	for i := 0; i < len(encoded); i++ {
		_, err := DecodeHeader(encoded[:i])
		require.ErrorIs(t, err, ErrShortHeader, "length %d", i)
	}
}

func TestEncodedByteLayout(t *testing.T) {
	r := &Record{
		Header: Header{
			Flags:       1,
			SecondHash:  2,
			KeySize:     1,
			ValueSize:   1,
			PaddingSize: 2,
			LeftChild:   5,
			RightChild:  6,
		},
		Key:     []byte("a"),
		Value:   []byte("b"),
		Padding: []byte{0, 0},
	}

	encoded, err := EncodeRecordToBytes(r)
	require.NoError(t, err)
	require.Len(t, encoded, HeaderSizeBytes+4)

	expectUint32 := func(name string, at int, want uint32) {
		got := binary.LittleEndian.Uint32(encoded[at : at+4])
		assert.Equal(t, want, got, name)
	}

	expectUint32("Flags", FlagsField, 1)
	expectUint32("SecondHash", SecondHashField, 2)
	expectUint32("KeySize", KeySizeField, 1)
	expectUint32("ValueSize", ValueSizeField, 1)
	expectUint32("PaddingSize", PaddingSizeField, 2)
	expectUint32("LeftChild", LeftChildField, 5)
	expectUint32("RightChild", RightChildField, 6)

	assert.Equal(t, byte('a'), encoded[KeyField])
	assert.Equal(t, byte('b'), encoded[KeyField+1])
	assert.Equal(t, []byte{0, 0}, encoded[KeyField+2:])
}

func TestEncodeRejectsMismatchedSizes(t *testing.T) {
	r := &Record{Header: Header{KeySize: 2, ValueSize: 1}, Key: []byte("a"), Value: []byte("b")}

	_, err := EncodeRecordToBytes(r)
	assert.ErrorIs(t, err, ErrUnexpectedSizes)
}

func TestNewRecordIsLeaf(t *testing.T) {
	rec, err := New([]byte("key"), []byte("value"))
	require.NoError(t, err)

	assert.True(t, rec.IsLeaf())
	assert.Equal(t, SecondaryHash([]byte("key")), rec.SecondHash)
	assert.Equal(t, uint32(3), rec.KeySize)
	assert.Equal(t, uint32(5), rec.ValueSize)
	assert.Zero(t, rec.PaddingSize)
}

func TestWriteThenRead(t *testing.T) {
	s := stream.NewMemory()

	rec, err := New([]byte("language"), []byte("go"))
	require.NoError(t, err)
	rec.Offset = 100
	rec.PaddingSize = 4
	rec.Padding = make([]byte, 4)

	require.NoError(t, Write(s, rec))

	size, _ := s.Size()
	assert.Equal(t, int64(100+HeaderSizeBytes+8+2+4), size)

	h, err := ReadHeader(s, 100)
	require.NoError(t, err)
	assert.Equal(t, rec.Header, h)

	got, err := ReadRecord(s, h)
	require.NoError(t, err)
	assert.Equal(t, []byte("language"), got.Key)
	assert.Equal(t, []byte("go"), got.Value)

	key, err := ReadKey(s, h)
	require.NoError(t, err)
	assert.Equal(t, []byte("language"), key)
}

func TestReadRecordDetectsCorruption(t *testing.T) {
	s := stream.NewMemory()

	rec, err := New([]byte("language"), []byte("go"))
	require.NoError(t, err)
	require.NoError(t, Write(s, rec))

	// flip one key byte without touching the stored hash
	_, err = s.WriteAt([]byte{'L'}, KeyField)
	require.NoError(t, err)

	h, err := ReadHeader(s, 0)
	require.NoError(t, err)

	_, err = ReadRecord(s, h)
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestReadPastEndIsCorruption(t *testing.T) {
	s := stream.MemoryFrom(make([]byte, 10))

	_, err := ReadHeader(s, 0)
	assert.ErrorIs(t, err, ErrCorruption)

	h := Header{Offset: 0, KeySize: 100, ValueSize: 1}
	_, err = ReadRecord(s, h)
	assert.ErrorIs(t, err, ErrCorruption)
}

func TestLinks(t *testing.T) {
	s := stream.MemoryFrom(make([]byte, 64))

	require.NoError(t, WriteLink(s, 20, 0xDEADBEEF))

	got, err := ReadLink(s, 20)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), got)
	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0xDE}, s.Bytes()[20:24])
}
