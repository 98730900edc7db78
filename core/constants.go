package core

import "github.com/0xRadioAc7iv/go-depot/internal/record"

// File header layout. Every offset is absolute, from the start of the file.
const (
	OffsetHeaderMagic        = 0  // 12 bytes, ASCII, NUL padded
	OffsetHeaderVersion      = 12 // 4 bytes, ASCII, NUL padded
	OffsetHeaderWrapperFlags = 16 // 8 bytes
	OffsetHeaderFileSize     = 24 // 8 bytes
	OffsetHeaderBucketCount  = 32 // 8 bytes
	OffsetHeaderRecordCount  = 40 // 8 bytes
	OffsetBuckets            = 48 // bucketCount * 4 bytes

	HeaderSizeBytes = OffsetBuckets
	MagicSizeBytes  = 12
	VersionBytes    = 4
	BucketSlotBytes = 4
)

const (
	MagicLittleEndian = "[depot]\n\f"
	MagicBigEndian    = "[DEPOT]\n\f"
	Version           = "14"

	DefaultBucketCount = 4093
	DefaultBlockSize   = 4096

	// Per-record width used by the padding arithmetic. This is the value
	// depot files written by existing tooling were padded with, and it is
	// kept as is so padding decisions match them byte for byte.
	PaddingHeaderWidth = OffsetHeaderRecordCount * BucketSlotBytes

	// Records are addressed with 32 bit signed offsets.
	MaxRecordOffset = 1<<31 - 1

	maxBucketCount = (MaxRecordOffset - OffsetBuckets) / BucketSlotBytes

	RecordHeaderSizeBytes = record.HeaderSizeBytes
)
