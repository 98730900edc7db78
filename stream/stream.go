// Package stream provides the random-access byte stores a depot is kept in.
//
// Every read and write names its absolute offset. There is no cursor carried
// between calls, so the order in which the engine touches the header, the
// bucket directory and the record area never matters.
package stream

import (
	"errors"
	"io"
	"os"
)

var ErrNegativeOffset = errors.New("stream: negative offset")

// Stream is an exclusively owned, random-access byte store.
type Stream interface {
	io.ReaderAt
	io.WriterAt
	// Size returns the current length of the stream in bytes.
	Size() (int64, error)
	// Sync flushes written data to durable storage, if the stream has any.
	Sync() error
}

// File adapts an open *os.File to a Stream.
type File struct {
	f *os.File
}

func FromFile(f *os.File) *File {
	return &File{f: f}
}

func (s *File) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *File) WriteAt(p []byte, off int64) (int, error) {
	return s.f.WriteAt(p, off)
}

func (s *File) Size() (int64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

func (s *File) Sync() error {
	return s.f.Sync()
}

// Name returns the name of the underlying file.
func (s *File) Name() string {
	return s.f.Name()
}

// Memory is a growable in-memory Stream. Writes past the end extend it,
// zero-filling any gap, the same way a sparse file would read back.
type Memory struct {
	buf []byte
}

func NewMemory() *Memory {
	return &Memory{}
}

// MemoryFrom returns a Memory stream holding a copy of data.
func MemoryFrom(data []byte) *Memory {
	return &Memory{buf: append([]byte(nil), data...)}
}

func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		if end > int64(cap(m.buf)) {
			grown := make([]byte, end, 2*end)
			copy(grown, m.buf)
			m.buf = grown
		} else {
			m.buf = m.buf[:end]
		}
	}
	return copy(m.buf[off:], p), nil
}

func (m *Memory) Size() (int64, error) {
	return int64(len(m.buf)), nil
}

func (m *Memory) Sync() error {
	return nil
}

// Bytes returns the stream contents. The slice aliases the stream until the
// next write.
func (m *Memory) Bytes() []byte {
	return m.buf
}
