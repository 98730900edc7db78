package core

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"

	"github.com/0xRadioAc7iv/go-depot/internal/record"
	"github.com/0xRadioAc7iv/go-depot/stream"
)

// Depot is a hash database kept in a single stream. It is not safe for
// concurrent use; callers serialize access.
type Depot struct {
	s          stream.Stream
	header     Header
	buckets    bucketDirectory
	end        int64 // stream length, refreshed after every append
	alignment  int
	strictKeys bool
	log        logger.Logger
}

// New opens the depot stored in s, or creates one if s is empty.
func New(s stream.Stream, opts ...Option) (*Depot, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	d := &Depot{
		s:          s,
		alignment:  o.alignment,
		strictKeys: o.strictKeys,
		log:        o.log,
	}

	size, err := s.Size()
	if err != nil {
		return nil, err
	}

	if size == 0 {
		err = d.create(o.capacity)
	} else {
		err = d.open(size)
	}
	if err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Depot) create(capacity int64) error {
	count, err := NearestPrimeCapacity(capacity)
	if err != nil {
		return err
	}

	d.header = Header{
		ByteOrder:   LittleEndian,
		Version:     Version,
		BucketCount: count,
	}
	d.header.FileSize = d.header.RecordsStart()

	buf := make([]byte, d.header.FileSize)
	copy(buf, d.header.encode())
	if _, err := d.s.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("writing depot header: %w", err)
	}

	d.buckets = make(bucketDirectory, count)
	d.end = d.header.FileSize

	d.infof("created depot with %d buckets", count)
	return nil
}

func (d *Depot) open(size int64) error {
	raw := make([]byte, min(size, HeaderSizeBytes))
	if n, err := d.s.ReadAt(raw, 0); n < len(raw) {
		return fmt.Errorf("reading depot header: %w", err)
	}

	h, err := decodeHeader(raw)
	if err != nil {
		return err
	}

	if h.BucketCount <= 0 || h.BucketCount > maxBucketCount || h.RecordsStart() > size {
		return fmt.Errorf("%w: bucket directory of %d slots does not fit in %d bytes", ErrCorruption, h.BucketCount, size)
	}

	dir := make([]byte, h.BucketCount*BucketSlotBytes)
	n, err := d.s.ReadAt(dir, OffsetBuckets)
	if n < len(dir) {
		return fmt.Errorf("reading bucket directory: %w", err)
	}

	d.header = h
	d.buckets = decodeBuckets(dir)
	d.end = size

	d.infof("opened depot version %s: %d buckets, %d records, %d bytes", h.Version, h.BucketCount, h.RecordCount, size)
	return nil
}

// Get returns the value stored under k. A missing key is reported with
// found == false and a nil error.
func (d *Depot) Get(k Key) (value []byte, found bool, err error) {
	raw := k.Bytes()
	index := d.buckets.index(k.PrimaryHash())

	n, found, err := d.lookup(d.buckets[index], bucketOffset(index), record.SecondaryHash(raw))
	if err != nil || !found {
		return nil, false, err
	}

	rec, err := record.ReadRecord(d.s, n.Header)
	if err != nil {
		return nil, false, err
	}

	// Same bucket and secondary hash is not proof of the same key.
	if !bytes.Equal(rec.Key, raw) {
		return nil, false, nil
	}

	return rec.Value, true, nil
}

// Put stores value under k. An existing record for the key is overwritten in
// place when its allocated space is large enough; otherwise a new record is
// appended and takes over the old one's position in the tree.
func (d *Depot) Put(k Key, value []byte) error {
	raw := k.Bytes()
	if len(raw) == 0 {
		return fmt.Errorf("%w: key must be specified", ErrInvalidArgument)
	}
	if len(value) == 0 {
		return fmt.Errorf("%w: value must be specified", ErrInvalidArgument)
	}

	rec, err := record.New(raw, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	index := d.buckets.index(k.PrimaryHash())
	root := d.buckets[index]

	existing, found, err := d.lookup(root, bucketOffset(index), rec.SecondHash)
	if err != nil {
		return err
	}

	if !found {
		if err := d.appendRecord(rec); err != nil {
			return err
		}
		if root == 0 {
			return d.relink(bucketOffset(index), uint32(rec.Offset))
		}
		return d.insert(root, rec.SecondHash, uint32(rec.Offset))
	}

	if d.strictKeys {
		stored, err := record.ReadKey(d.s, existing.Header)
		if err != nil {
			return err
		}
		if !bytes.Equal(stored, raw) {
			return fmt.Errorf("%w: %q and %q", ErrHashCollision, stored, raw)
		}
	}

	rec.LeftChild, rec.RightChild = existing.LeftChild, existing.RightChild

	needed := int64(rec.KeySize) + int64(rec.ValueSize)
	if existing.Size() >= needed {
		rec.Offset = existing.Offset
		rec.PaddingSize = uint32(existing.Size() - needed)
		return record.Write(d.s, rec)
	}

	if err := d.appendRecord(rec); err != nil {
		return err
	}
	return d.relink(existing.link, uint32(rec.Offset))
}

// appendRecord writes rec at the end of the stream with padding chosen by the
// alignment policy, then updates the record count and file size fields.
func (d *Depot) appendRecord(rec *record.Record) error {
	offset := d.end
	if offset > MaxRecordOffset {
		return fmt.Errorf("%w: stream is %d bytes", ErrOffsetOverflow, offset)
	}

	pad := paddingSize(d.alignment, d.header.FileSize, int64(rec.KeySize), int64(rec.ValueSize))
	if pad < 0 {
		pad = 0
	}
	if int64(rec.KeySize)+int64(rec.ValueSize)+pad > MaxRecordOffset {
		return fmt.Errorf("%w: padding of %d bytes", ErrOffsetOverflow, pad)
	}

	rec.Offset = offset
	rec.PaddingSize = uint32(pad)
	rec.Padding = make([]byte, pad)

	if err := record.Write(d.s, rec); err != nil {
		return fmt.Errorf("appending record: %w", err)
	}

	size, err := d.s.Size()
	if err != nil {
		return err
	}
	d.end = size

	d.header.RecordCount++
	d.header.FileSize = size

	if err := d.putInt64(OffsetHeaderRecordCount, d.header.RecordCount); err != nil {
		return err
	}
	return d.putInt64(OffsetHeaderFileSize, d.header.FileSize)
}

// relink points the link at position at to target, keeping the bucket mirror
// in step when the link is a bucket slot.
func (d *Depot) relink(at int64, target uint32) error {
	if err := record.WriteLink(d.s, at, target); err != nil {
		return err
	}
	if i, ok := d.buckets.slotAt(at); ok {
		d.buckets[i] = target
	}
	return nil
}

func (d *Depot) putInt64(at int64, v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, err := d.s.WriteAt(buf[:], at)
	return err
}

// ForEach calls fn for every reachable record, bucket by bucket in slot
// order and in pre-order within a bucket. Iteration stops at the first error
// fn returns.
func (d *Depot) ForEach(fn func(key, value []byte) error) error {
	for i, root := range d.buckets {
		err := d.walk(root, bucketOffset(int64(i)), func(n node) error {
			rec, err := record.ReadRecord(d.s, n.Header)
			if err != nil {
				return err
			}
			return fn(rec.Key, rec.Value)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// GetAll returns every reachable record keyed by its raw key bytes.
func (d *Depot) GetAll() (map[string][]byte, error) {
	all := make(map[string][]byte)
	err := d.ForEach(func(key, value []byte) error {
		all[string(key)] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return all, nil
}

// SetAlignment changes the padding policy for future appends and returns the
// value now in effect. Records already written keep their padding.
func (d *Depot) SetAlignment(n int) int {
	d.alignment = n
	return d.alignment
}

// Alignment returns the padding policy used for the next append.
func (d *Depot) Alignment() int {
	return d.alignment
}

// Header returns a copy of the in-memory header.
func (d *Depot) Header() Header {
	return d.header
}

// UsedBucketCount reports how many buckets hold at least one record.
func (d *Depot) UsedBucketCount() int64 {
	return d.buckets.used()
}

// Sync flushes the underlying stream.
func (d *Depot) Sync() error {
	return d.s.Sync()
}

func (d *Depot) infof(format string, args ...any) {
	if d.log != nil {
		d.log.Infof(format, args...)
	}
}

// IsFormatError reports whether err means the stream does not hold a
// readable depot at all, as opposed to a damaged one.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrUnknownFormat) || errors.Is(err, ErrUnsupportedFormat)
}
