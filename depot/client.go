package depot

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/0xRadioAc7iv/go-depot/internal"
	"github.com/0xRadioAc7iv/go-depot/internal/protocol"
)

// ServerError carries the message of a request the server refused.
type ServerError struct {
	Msg string
}

func (e *ServerError) Error() string {
	return "depot server: " + e.Msg
}

var ErrUnexpectedReply = errors.New("unexpected reply from depot server")

// Reply is a successful server response. Nil is set when the server had
// nothing to return, such as a GET for a missing key.
type Reply struct {
	Nil  bool
	Body []byte
}

// Client is a single connection to a depot server. It is not safe for
// concurrent use.
type Client struct {
	conn net.Conn
}

func Connect(opts ...Option) (*Client, error) {
	cfg := internal.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	conn, err := net.DialTimeout("tcp", addr, cfg.DialTimeout)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Ping() error {
	_, err := c.Execute("ping", nil, nil)
	return err
}

// Get returns the value stored under key. found is false when the key is
// absent.
func (c *Client) Get(key []byte) (value []byte, found bool, err error) {
	reply, err := c.Execute("get", key, nil)
	if err != nil {
		return nil, false, err
	}
	if reply.Nil {
		return nil, false, nil
	}
	return reply.Body, true, nil
}

func (c *Client) Set(key, value []byte) error {
	_, err := c.Execute("set", key, value)
	return err
}

func (c *Client) Exists(key []byte) (bool, error) {
	reply, err := c.Execute("exists", key, nil)
	if err != nil {
		return false, err
	}
	return parseBool(reply)
}

// Count returns the number of reachable records.
func (c *Client) Count() (int, error) {
	reply, err := c.Execute("count", nil, nil)
	if err != nil {
		return 0, err
	}
	return parseInt(reply)
}

// Buckets returns the number of buckets holding at least one record.
func (c *Client) Buckets() (int, error) {
	reply, err := c.Execute("buckets", nil, nil)
	if err != nil {
		return 0, err
	}
	return parseInt(reply)
}

// List returns every stored key as the server renders it.
func (c *Client) List() ([]string, error) {
	reply, err := c.Execute("list", nil, nil)
	if err != nil {
		return nil, err
	}
	if reply.Nil {
		return nil, nil
	}
	return strings.Split(string(reply.Body), "\n"), nil
}

// Header returns the server's description of the file header.
func (c *Client) Header() (string, error) {
	reply, err := c.Execute("header", nil, nil)
	if err != nil {
		return "", err
	}
	return string(reply.Body), nil
}

// Align sets the padding policy on the server and returns the value now in
// effect.
func (c *Client) Align(n int) (int, error) {
	reply, err := c.Execute("align", []byte(strconv.Itoa(n)), nil)
	if err != nil {
		return 0, err
	}
	return parseInt(reply)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Execute sends one command and waits for its response. A response with
// error status comes back as a *ServerError.
func (c *Client) Execute(cmd string, key, value []byte) (Reply, error) {
	payload, err := protocol.EncodeCommand(cmd, key, value)
	if err != nil {
		return Reply{}, err
	}

	if _, err := c.conn.Write(payload); err != nil {
		return Reply{}, err
	}

	response, err := protocol.DecodeResponse(c.conn)
	if err != nil {
		return Reply{}, err
	}

	switch response.Status {
	case protocol.StatusOK:
		return Reply{Body: response.Body}, nil
	case protocol.StatusNil:
		return Reply{Nil: true}, nil
	case protocol.StatusError:
		return Reply{}, &ServerError{Msg: string(response.Body)}
	}
	return Reply{}, fmt.Errorf("%w: status %s", ErrUnexpectedReply, response.Status)
}

func parseInt(reply Reply) (int, error) {
	n, err := strconv.Atoi(string(reply.Body))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnexpectedReply, reply.Body)
	}
	return n, nil
}

func parseBool(reply Reply) (bool, error) {
	b, err := strconv.ParseBool(string(reply.Body))
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrUnexpectedReply, reply.Body)
	}
	return b, nil
}

// ParseArg turns a command line argument into raw bytes.
//
//	int:<n>       4 byte little-endian int32
//	hex:<digits>  the decoded bytes
//	anything else the argument's own bytes
func ParseArg(arg string) ([]byte, error) {
	switch {
	case strings.HasPrefix(arg, "int:"):
		n, err := strconv.ParseInt(strings.TrimPrefix(arg, "int:"), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("bad int argument %q: %w", arg, err)
		}
		return binary.LittleEndian.AppendUint32(nil, uint32(int32(n))), nil
	case strings.HasPrefix(arg, "hex:"):
		b, err := hex.DecodeString(strings.TrimPrefix(arg, "hex:"))
		if err != nil {
			return nil, fmt.Errorf("bad hex argument %q: %w", arg, err)
		}
		return b, nil
	}
	return []byte(arg), nil
}
