package core

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/0xRadioAc7iv/go-depot/internal/record"
)

// KeyKind records how a Key was built. It only affects String.
type KeyKind uint8

const (
	KindBytes KeyKind = iota
	KindInt
	KindString
)

// Key is the raw byte form of a depot key.
type Key struct {
	kind KeyKind
	raw  []byte
}

// BytesKey uses b as is.
func BytesKey(b []byte) Key {
	return Key{kind: KindBytes, raw: b}
}

// IntKey encodes v as 4 little-endian bytes.
func IntKey(v int32) Key {
	raw := make([]byte, 4)
	binary.LittleEndian.PutUint32(raw, uint32(v))
	return Key{kind: KindInt, raw: raw}
}

// StringKey encodes s one byte per character. Only ASCII is accepted.
func StringKey(s string) (Key, error) {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7F {
			return Key{}, fmt.Errorf("%w: key %q is not ASCII", ErrInvalidArgument, s)
		}
	}
	return Key{kind: KindString, raw: []byte(s)}, nil
}

// Bytes returns the raw key as stored on disk. Callers must not modify it.
func (k Key) Bytes() []byte {
	return k.raw
}

// Kind reports how the key was built. It only affects String.
func (k Key) Kind() KeyKind {
	return k.kind
}

// PrimaryHash selects the bucket.
func (k Key) PrimaryHash() int32 {
	return record.PrimaryHash(k.raw)
}

// SecondaryHash orders records inside a bucket tree.
func (k Key) SecondaryHash() int32 {
	return record.SecondaryHash(k.raw)
}

// Equal compares raw bytes only; how the keys were built does not matter.
func (k Key) Equal(other Key) bool {
	return bytes.Equal(k.raw, other.raw)
}

// String prints string and int keys as themselves and byte keys as the
// uppercase hex of each byte, without zero padding.
func (k Key) String() string {
	switch k.kind {
	case KindString:
		return string(k.raw)
	case KindInt:
		return strconv.Itoa(int(int32(binary.LittleEndian.Uint32(k.raw))))
	}

	var sb strings.Builder
	for _, b := range k.raw {
		fmt.Fprintf(&sb, "%X", b)
	}
	return sb.String()
}
