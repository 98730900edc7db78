package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

type Endianness uint8

const (
	LittleEndian Endianness = iota
	BigEndian
)

func (e Endianness) String() string {
	if e == BigEndian {
		return "big-endian"
	}
	return "little-endian"
}

// Header mirrors the 48 byte file header.
type Header struct {
	ByteOrder    Endianness
	Version      string
	WrapperFlags int64
	FileSize     int64
	BucketCount  int64
	RecordCount  int64
}

// RecordsStart is the offset of the first byte after the bucket directory.
func (h Header) RecordsStart() int64 {
	return OffsetBuckets + h.BucketCount*BucketSlotBytes
}

func (h Header) encode() []byte {
	buf := make([]byte, HeaderSizeBytes)

	copy(buf[OffsetHeaderMagic:OffsetHeaderMagic+MagicSizeBytes], MagicLittleEndian)
	copy(buf[OffsetHeaderVersion:OffsetHeaderVersion+VersionBytes], h.Version)
	binary.LittleEndian.PutUint64(buf[OffsetHeaderWrapperFlags:], uint64(h.WrapperFlags))
	binary.LittleEndian.PutUint64(buf[OffsetHeaderFileSize:], uint64(h.FileSize))
	binary.LittleEndian.PutUint64(buf[OffsetHeaderBucketCount:], uint64(h.BucketCount))
	binary.LittleEndian.PutUint64(buf[OffsetHeaderRecordCount:], uint64(h.RecordCount))

	return buf
}

// decodeHeader checks the magic string before anything else, so a short or
// foreign file is reported as a format problem rather than an I/O one.
func decodeHeader(data []byte) (Header, error) {
	if len(data) < MagicSizeBytes {
		return Header{}, ErrUnknownFormat
	}

	var h Header
	switch trimNUL(data[OffsetHeaderMagic : OffsetHeaderMagic+MagicSizeBytes]) {
	case MagicLittleEndian:
		h.ByteOrder = LittleEndian
	case MagicBigEndian:
		return Header{}, ErrUnsupportedFormat
	default:
		return Header{}, ErrUnknownFormat
	}

	if len(data) < HeaderSizeBytes {
		return Header{}, fmt.Errorf("%w: header is %d bytes, want %d", ErrCorruption, len(data), HeaderSizeBytes)
	}

	h.Version = trimNUL(data[OffsetHeaderVersion : OffsetHeaderVersion+VersionBytes])
	h.WrapperFlags = int64(binary.LittleEndian.Uint64(data[OffsetHeaderWrapperFlags:]))
	h.FileSize = int64(binary.LittleEndian.Uint64(data[OffsetHeaderFileSize:]))
	h.BucketCount = int64(binary.LittleEndian.Uint64(data[OffsetHeaderBucketCount:]))
	h.RecordCount = int64(binary.LittleEndian.Uint64(data[OffsetHeaderRecordCount:]))

	return h, nil
}

func trimNUL(b []byte) string {
	return string(bytes.TrimRight(b, "\x00"))
}
