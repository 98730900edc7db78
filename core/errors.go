package core

import (
	"errors"

	"github.com/0xRadioAc7iv/go-depot/internal/record"
)

var (
	ErrUnsupportedFormat = errors.New("big endian depot files are not supported")
	ErrUnknownFormat     = errors.New("unknown file format")
	ErrCorruption        = record.ErrCorruption
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrHashCollision     = errors.New("a different key is stored under the same secondary hash")
	ErrOffsetOverflow    = errors.New("record offset would exceed the 32 bit range")
	ErrServerStopped     = errors.New("server is stopped")
)
