package protocol

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
)

// MaxPayloadBytes bounds a key, value or response body on the wire.
const MaxPayloadBytes = 64 << 20

var ErrPayloadTooLarge = errors.New("payload exceeds the wire limit")

// Command is one client request. Key and Val are raw bytes; which of them a
// command uses depends on its name.
type Command struct {
	Cmd string
	Key []byte
	Val []byte
}

// EncodeCommand serializes a command as
//
//	<cmd_len:uint8><key_len:uint32><val_len:uint32><cmd><key><val>
//
// with big-endian lengths. Command names are limited to 255 bytes.
func EncodeCommand(cmd string, key, val []byte) ([]byte, error) {
	if len(cmd) > 0xFF {
		return nil, errors.New("command name longer than 255 bytes")
	}
	if len(key) > MaxPayloadBytes || len(val) > MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	buf := &bytes.Buffer{}

	buf.WriteByte(uint8(len(cmd)))
	if err := binary.Write(buf, binary.BigEndian, uint32(len(key))); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.BigEndian, uint32(len(val))); err != nil {
		return nil, err
	}

	buf.WriteString(cmd)
	buf.Write(key)
	buf.Write(val)

	return buf.Bytes(), nil
}

// DecodeCommand blocks until a whole command has been read from r.
func DecodeCommand(r io.Reader) (*Command, error) {
	var cmdLen uint8
	var keyLen, valLen uint32

	if err := binary.Read(r, binary.BigEndian, &cmdLen); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &keyLen); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &valLen); err != nil {
		return nil, err
	}
	if keyLen > MaxPayloadBytes || valLen > MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	cmdB := make([]byte, cmdLen)
	keyB := make([]byte, keyLen)
	valB := make([]byte, valLen)

	if _, err := io.ReadFull(r, cmdB); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, keyB); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, valB); err != nil {
		return nil, err
	}

	return &Command{Cmd: string(cmdB), Key: keyB, Val: valB}, nil
}
