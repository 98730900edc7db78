package core

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/0xRadioAc7iv/go-depot/internal/protocol"
	"github.com/0xRadioAc7iv/go-depot/internal/server"
)

// Server exposes one depot file over TCP. Requests from all connections are
// applied one at a time.
type Server struct {
	DataFilePath string
	Capacity     int64
	Alignment    int
	StrictKeys   bool
	ListenerPort int
	SyncInterval uint // seconds, 0 disables the background sync

	depot   *FileDepot
	depotMu sync.Mutex

	listener     net.Listener
	serverCancel context.CancelFunc
	syncCancel   context.CancelFunc
	serveDone    chan struct{}

	connsMu  sync.Mutex
	conns    map[net.Conn]struct{}
	stopping bool
	handlers sync.WaitGroup

	log logger.Logger
}

// Start opens the depot file and begins accepting connections.
func (s *Server) Start() error {
	s.log = logger.Sugar.WithServiceName("depot")

	opts := []Option{
		WithCapacity(s.Capacity),
		WithAlignment(s.Alignment),
		WithLogger(s.log),
	}
	if s.StrictKeys {
		opts = append(opts, WithStrictKeys())
	}

	d, err := OpenFile(s.DataFilePath, opts...)
	if err != nil {
		return fmt.Errorf("opening %s: %w", s.DataFilePath, err)
	}
	s.depot = d

	ln, err := server.Listen(s.ListenerPort)
	if err != nil {
		d.Close()
		return err
	}
	s.listener = ln

	ctx, cancel := context.WithCancel(context.Background())
	s.serverCancel = cancel
	s.serveDone = make(chan struct{})
	go func() {
		defer close(s.serveDone)
		if err := server.Serve(ctx, ln, s.commandHandler, s.log); err != nil {
			s.log.Infof("server stopped abruptly: %v", err)
		}
	}()

	if s.SyncInterval > 0 {
		syncCtx, syncCancel := context.WithCancel(context.Background())
		s.syncCancel = syncCancel
		go s.syncDiskInterval(syncCtx, s.SyncInterval)
	}

	s.log.Infof("depot %s served on port %d", s.DataFilePath, server.Port(ln))
	return nil
}

// Port is the port the server actually listens on, which may differ from
// ListenerPort when that one was taken.
func (s *Server) Port() int {
	if s.listener == nil {
		return 0
	}
	return server.Port(s.listener)
}

func (s *Server) commandHandler(conn net.Conn) {
	if !s.track(conn) {
		conn.Close()
		return
	}
	defer s.untrack(conn)

	id := uuid.New()
	s.log.Infof("connection %s opened from %s", id, conn.RemoteAddr())

	for {
		command, err := protocol.DecodeCommand(conn)
		if err != nil {
			s.log.Infof("connection %s closed", id)
			return
		}

		s.handleCommand(command, conn)
	}
}

// track registers conn so Stop can close it. It refuses once Stop has begun.
func (s *Server) track(conn net.Conn) bool {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()

	if s.stopping {
		return false
	}
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	s.conns[conn] = struct{}{}
	s.handlers.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	conn.Close()

	s.connsMu.Lock()
	delete(s.conns, conn)
	s.connsMu.Unlock()

	s.handlers.Done()
}

func (s *Server) handleCommand(command *protocol.Command, conn net.Conn) {
	switch strings.ToLower(command.Cmd) {
	case "ping":
		s.reply(conn, protocol.StatusOK, "PONG!")
	case "set":
		s.handleCommandSet(conn, command.Key, command.Val)
	case "get":
		s.handleCommandGet(conn, command.Key)
	case "exists":
		s.handleCommandExists(conn, command.Key)
	case "count":
		s.handleCommandCount(conn)
	case "buckets":
		s.handleCommandBuckets(conn)
	case "list":
		s.handleCommandList(conn)
	case "header":
		s.handleCommandHeader(conn)
	case "align":
		s.handleCommandAlign(conn, string(command.Key))
	case "help":
		s.reply(conn, protocol.StatusOK, strings.TrimSpace(helpText))
	default:
		s.reply(conn, protocol.StatusError, "Invalid Command")
	}
}

// withDepot runs fn with exclusive use of the engine.
func (s *Server) withDepot(fn func(d *FileDepot) error) error {
	s.depotMu.Lock()
	defer s.depotMu.Unlock()

	if s.depot == nil {
		return ErrServerStopped
	}
	return fn(s.depot)
}

func (s *Server) handleCommandGet(conn net.Conn, key []byte) {
	var value []byte
	var found bool
	err := s.withDepot(func(d *FileDepot) (err error) {
		value, found, err = d.Get(BytesKey(key))
		return err
	})

	switch {
	case err != nil:
		s.replyError(conn, "get", err)
	case !found:
		s.replyBytes(conn, protocol.StatusNil, nil)
	default:
		s.replyBytes(conn, protocol.StatusOK, value)
	}
}

func (s *Server) handleCommandSet(conn net.Conn, key, value []byte) {
	err := s.withDepot(func(d *FileDepot) error {
		return d.Put(BytesKey(key), value)
	})

	if err != nil {
		s.replyError(conn, "set", err)
		return
	}
	s.reply(conn, protocol.StatusOK, "ok")
}

func (s *Server) handleCommandExists(conn net.Conn, key []byte) {
	var found bool
	err := s.withDepot(func(d *FileDepot) (err error) {
		_, found, err = d.Get(BytesKey(key))
		return err
	})

	if err != nil {
		s.replyError(conn, "exists", err)
		return
	}
	s.reply(conn, protocol.StatusOK, strconv.FormatBool(found))
}

func (s *Server) handleCommandCount(conn net.Conn) {
	var count int
	err := s.withDepot(func(d *FileDepot) error {
		return d.ForEach(func(_, _ []byte) error {
			count++
			return nil
		})
	})

	if err != nil {
		s.replyError(conn, "count", err)
		return
	}
	s.reply(conn, protocol.StatusOK, strconv.Itoa(count))
}

func (s *Server) handleCommandBuckets(conn net.Conn) {
	var used int64
	err := s.withDepot(func(d *FileDepot) error {
		used = d.UsedBucketCount()
		return nil
	})

	if err != nil {
		s.replyError(conn, "buckets", err)
		return
	}
	s.reply(conn, protocol.StatusOK, strconv.FormatInt(used, 10))
}

func (s *Server) handleCommandList(conn net.Conn) {
	var keys []string
	err := s.withDepot(func(d *FileDepot) error {
		return d.ForEach(func(key, _ []byte) error {
			keys = append(keys, FormatKey(key))
			return nil
		})
	})

	if err != nil {
		s.replyError(conn, "list", err)
		return
	}
	if len(keys) == 0 {
		s.replyBytes(conn, protocol.StatusNil, nil)
		return
	}
	s.reply(conn, protocol.StatusOK, strings.Join(keys, "\n"))
}

func (s *Server) handleCommandHeader(conn net.Conn) {
	var desc string
	err := s.withDepot(func(d *FileDepot) error {
		desc = DescribeHeader(d.Header(), d.UsedBucketCount(), d.Alignment())
		return nil
	})

	if err != nil {
		s.replyError(conn, "header", err)
		return
	}
	s.reply(conn, protocol.StatusOK, desc)
}

func (s *Server) handleCommandAlign(conn net.Conn, arg string) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		s.reply(conn, protocol.StatusError, fmt.Sprintf("alignment must be an integer: %q", arg))
		return
	}

	var now int
	err = s.withDepot(func(d *FileDepot) error {
		now = d.SetAlignment(n)
		return nil
	})

	if err != nil {
		s.replyError(conn, "align", err)
		return
	}
	s.reply(conn, protocol.StatusOK, strconv.Itoa(now))
}

func (s *Server) replyError(conn net.Conn, op string, err error) {
	s.log.Infof("%s failed: %v", op, err)
	s.reply(conn, protocol.StatusError, err.Error())
}

func (s *Server) reply(conn net.Conn, status protocol.Status, msg string) {
	s.replyBytes(conn, status, []byte(msg))
}

func (s *Server) replyBytes(conn net.Conn, status protocol.Status, body []byte) {
	encoded, err := protocol.EncodeResponse(status, body)
	if err != nil {
		s.log.Infof("error encoding response: %v", err)
		return
	}

	if _, err := conn.Write(encoded); err != nil {
		s.log.Infof("client disconnected: %v", err)
	}
}

func (s *Server) syncDiskInterval(ctx context.Context, seconds uint) {
	ticker := time.NewTicker(time.Duration(seconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			err := s.withDepot(func(d *FileDepot) error {
				return d.Sync()
			})

			if err != nil && !errors.Is(err, ErrServerStopped) {
				s.log.Infof("error syncing depot file: %v", err)
			}

		case <-ctx.Done():
			return
		}
	}
}

// Stop stops accepting, closes open connections, waits for their handlers,
// then closes the depot. Calling it again is a no-op.
func (s *Server) Stop() {
	if s.serverCancel != nil {
		s.serverCancel()
		<-s.serveDone
	}

	s.connsMu.Lock()
	s.stopping = true
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()
	s.handlers.Wait()

	if s.syncCancel != nil {
		s.syncCancel()
	}

	s.depotMu.Lock()
	defer s.depotMu.Unlock()

	if s.depot != nil {
		if err := s.depot.Close(); err != nil {
			s.log.Infof("error closing depot file: %v", err)
		}
		s.depot = nil
	}
}

// FormatKey renders a raw key for listings: printable ASCII as is, anything
// else as "hex:" followed by the lowercase hex digits.
func FormatKey(raw []byte) string {
	for _, b := range raw {
		if b < 0x20 || b > 0x7E {
			return "hex:" + hex.EncodeToString(raw)
		}
	}
	return string(raw)
}

// DescribeHeader renders h as "name: value" lines.
func DescribeHeader(h Header, usedBuckets int64, alignment int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "version: %s\n", h.Version)
	fmt.Fprintf(&sb, "byte order: %s\n", h.ByteOrder)
	fmt.Fprintf(&sb, "wrapper flags: %d\n", h.WrapperFlags)
	fmt.Fprintf(&sb, "file size: %d\n", h.FileSize)
	fmt.Fprintf(&sb, "buckets: %d\n", h.BucketCount)
	fmt.Fprintf(&sb, "used buckets: %d\n", usedBuckets)
	fmt.Fprintf(&sb, "records: %d\n", h.RecordCount)
	fmt.Fprintf(&sb, "alignment: %d", alignment)
	return sb.String()
}

const helpText = `
Available Commands:

PING
  Check if the server is alive.
  Response: PONG!

SET <key> <value>
  Store a value for the given key.
  Overwrites the value if the key already exists.
  Response: ok

GET <key>
  Retrieve the value associated with the key.
  Response: value | nil

EXISTS <key>
  Check if a key exists.
  Response: true | false

COUNT
  Return the number of reachable records.
  Response: integer

BUCKETS
  Return the number of buckets holding at least one record.
  Response: integer

LIST
  List all stored keys.
  Response: list of keys | nil

HEADER
  Show the file header fields.

ALIGN <n>
  Set the padding policy for new records.
  0 disables padding, n > 0 aligns record ends to n bytes,
  n < 0 reserves a share of each value for growth.
  Response: the alignment now in effect

Keys and values may be written as int:<n> (4 byte little-endian integer)
or hex:<digits> (raw bytes); anything else is sent as typed.

HELP (cli only)
  Show this help message.

EXIT (cli only)
  Close the client connection.
`
