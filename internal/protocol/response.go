package protocol

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Status tells the client how to read a response body.
type Status uint8

const (
	StatusOK    Status = iota // body is the result
	StatusNil                 // key not found, body is empty
	StatusError               // body is an error message
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusNil:
		return "nil"
	case StatusError:
		return "error"
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

type Response struct {
	Status Status
	Body   []byte
}

// EncodeResponse serializes a response as <status:uint8><len:uint32><body>.
func EncodeResponse(status Status, body []byte) ([]byte, error) {
	if len(body) > MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	buf := &bytes.Buffer{}

	buf.WriteByte(uint8(status))
	if err := binary.Write(buf, binary.BigEndian, uint32(len(body))); err != nil {
		return nil, err
	}
	buf.Write(body)

	return buf.Bytes(), nil
}

func DecodeResponse(r io.Reader) (*Response, error) {
	var status uint8
	var bodyLen uint32

	if err := binary.Read(r, binary.BigEndian, &status); err != nil {
		return nil, err
	}
	if err := binary.Read(r, binary.BigEndian, &bodyLen); err != nil {
		return nil, err
	}
	if bodyLen > MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}

	body := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, err
	}

	return &Response{Status: Status(status), Body: body}, nil
}
