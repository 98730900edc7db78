package record

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Field offsets relative to the start of a record.
const (
	FlagsField       = 0
	SecondHashField  = 4
	KeySizeField     = 8
	ValueSizeField   = 12
	PaddingSizeField = 16
	LeftChildField   = 20
	RightChildField  = 24
	KeyField         = 28
)

// Flags (4) + SecondHash (4) + KeySize (4) + ValueSize (4) + PaddingSize (4)
// + LeftChild (4) + RightChild (4)
const HeaderSizeBytes = 28

var (
	ErrCorruption      = errors.New("database is corrupt")
	ErrShortHeader     = errors.New("too few bytes to decode a record header")
	ErrRecordTooLarge  = errors.New("record sizes do not fit in 31 bits")
	ErrUnexpectedSizes = errors.New("record key or value does not match its declared size")
)

// Header is the fixed-width part of a record, plus the offset it was read
// from. The offset is the record's identity: records are never moved.
type Header struct {
	Offset      int64
	Flags       int32
	SecondHash  int32
	KeySize     uint32
	ValueSize   uint32
	PaddingSize uint32
	LeftChild   uint32 // 0 when absent
	RightChild  uint32 // 0 when absent
}

// Size is the space allocated to the record body: key, value and padding.
func (h Header) Size() int64 {
	return int64(h.KeySize) + int64(h.ValueSize) + int64(h.PaddingSize)
}

// TotalSize is the number of bytes the record occupies on disk.
func (h Header) TotalSize() int64 {
	return HeaderSizeBytes + h.Size()
}

// IsLeaf reports whether the record has no children.
func (h Header) IsLeaf() bool {
	return h.LeftChild == 0 && h.RightChild == 0
}

type Record struct {
	Header
	Key     []byte
	Value   []byte
	Padding []byte // only written when non-empty
}

// New builds a leaf record for key and value with its secondary hash filled
// in. The offset and padding are left for the caller to decide.
func New(key, value []byte) (*Record, error) {
	if uint64(len(key))+uint64(len(value)) > uint64(^uint32(0)>>1) {
		return nil, ErrRecordTooLarge
	}
	return &Record{
		Header: Header{
			SecondHash: SecondaryHash(key),
			KeySize:    uint32(len(key)),
			ValueSize:  uint32(len(value)),
		},
		Key:   key,
		Value: value,
	}, nil
}

func EncodeHeader(h *Header) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, HeaderSizeBytes))

	fields := []any{
		h.Flags,
		h.SecondHash,
		h.KeySize,
		h.ValueSize,
		h.PaddingSize,
		h.LeftChild,
		h.RightChild,
	}
	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// DecodeHeader decodes the seven header fields. The returned header carries
// a zero offset; ReadHeader fills it in.
func DecodeHeader(data []byte) (Header, error) {
	if len(data) < HeaderSizeBytes {
		return Header{}, ErrShortHeader
	}

	return Header{
		Flags:       int32(binary.LittleEndian.Uint32(data[FlagsField:])),
		SecondHash:  int32(binary.LittleEndian.Uint32(data[SecondHashField:])),
		KeySize:     binary.LittleEndian.Uint32(data[KeySizeField:]),
		ValueSize:   binary.LittleEndian.Uint32(data[ValueSizeField:]),
		PaddingSize: binary.LittleEndian.Uint32(data[PaddingSizeField:]),
		LeftChild:   binary.LittleEndian.Uint32(data[LeftChildField:]),
		RightChild:  binary.LittleEndian.Uint32(data[RightChildField:]),
	}, nil
}

// EncodeRecordToBytes lays out header, key, value and padding contiguously.
func EncodeRecordToBytes(rec *Record) ([]byte, error) {
	if int(rec.KeySize) != len(rec.Key) || int(rec.ValueSize) != len(rec.Value) {
		return nil, ErrUnexpectedSizes
	}
	if len(rec.Padding) > 0 && int(rec.PaddingSize) != len(rec.Padding) {
		return nil, ErrUnexpectedSizes
	}

	header, err := EncodeHeader(&rec.Header)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(make([]byte, 0, HeaderSizeBytes+len(rec.Key)+len(rec.Value)+len(rec.Padding)))
	buf.Write(header)
	if len(rec.Key) > 0 {
		buf.Write(rec.Key)
	}
	if len(rec.Value) > 0 {
		buf.Write(rec.Value)
	}
	if len(rec.Padding) > 0 {
		buf.Write(rec.Padding)
	}

	return buf.Bytes(), nil
}

// ReadHeader reads the record header stored at offset.
func ReadHeader(r io.ReaderAt, offset int64) (Header, error) {
	buf := make([]byte, HeaderSizeBytes)
	if err := readFullAt(r, buf, offset); err != nil {
		return Header{}, wrapShortRead(err, "record header at %d", offset)
	}

	h, err := DecodeHeader(buf)
	if err != nil {
		return Header{}, err
	}
	h.Offset = offset

	return h, nil
}

// ReadRecord reads the key and value of the record described by h and checks
// the stored secondary hash against the key that was read back.
func ReadRecord(r io.ReaderAt, h Header) (*Record, error) {
	body := make([]byte, int64(h.KeySize)+int64(h.ValueSize))
	if len(body) > 0 {
		if err := readFullAt(r, body, h.Offset+KeyField); err != nil {
			return nil, wrapShortRead(err, "record body at %d", h.Offset)
		}
	}

	key := body[:h.KeySize:h.KeySize]
	if !ValidateSecondHash(key, h.SecondHash) {
		return nil, fmt.Errorf("%w: second hash mismatch for record at %d", ErrCorruption, h.Offset)
	}

	return &Record{
		Header: h,
		Key:    key,
		Value:  body[h.KeySize:],
	}, nil
}

// ReadKey reads only the key bytes of the record described by h.
func ReadKey(r io.ReaderAt, h Header) ([]byte, error) {
	key := make([]byte, h.KeySize)
	if len(key) == 0 {
		return key, nil
	}
	if err := readFullAt(r, key, h.Offset+KeyField); err != nil {
		return nil, wrapShortRead(err, "record key at %d", h.Offset)
	}
	return key, nil
}

// Write stores rec at rec.Offset in a single write. Child links are written
// as carried by rec, so a freshly built record lands as a leaf.
func Write(w io.WriterAt, rec *Record) error {
	data, err := EncodeRecordToBytes(rec)
	if err != nil {
		return err
	}

	_, err = w.WriteAt(data, rec.Offset)
	return err
}

// WriteLink stores a 32 bit record offset at an absolute position: a child
// field of some record, or a bucket directory slot.
func WriteLink(w io.WriterAt, at int64, target uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], target)
	_, err := w.WriteAt(buf[:], at)
	return err
}

// ReadLink reads the 32 bit record offset stored at an absolute position.
func ReadLink(r io.ReaderAt, at int64) (uint32, error) {
	var buf [4]byte
	if err := readFullAt(r, buf[:], at); err != nil {
		return 0, wrapShortRead(err, "link at %d", at)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readFullAt treats a complete read that also reports io.EOF as success, which
// io.ReaderAt permits at the end of the source.
func readFullAt(r io.ReaderAt, buf []byte, off int64) error {
	n, err := r.ReadAt(buf, off)
	if n == len(buf) {
		return nil
	}
	return err
}

// A record that runs off the end of the stream can only mean a damaged file.
func wrapShortRead(err error, format string, args ...any) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s runs past end of stream", ErrCorruption, fmt.Sprintf(format, args...))
	}
	return err
}
