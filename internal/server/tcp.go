package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/datatrails/go-datatrails-common/logger"
)

// maxPortProbes bounds how far Listen walks up from the requested port.
const maxPortProbes = 100

// Listen binds the first free TCP port at or above port. Port 0 lets the
// system choose.
func Listen(port int) (net.Listener, error) {
	for probe := 0; ; probe++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			return ln, nil
		}
		if port == 0 || probe >= maxPortProbes || !errors.Is(err, syscall.EADDRINUSE) {
			return nil, err
		}
		port++
	}
}

// Port returns the TCP port ln is bound to.
func Port(ln net.Listener) int {
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// Serve accepts connections on ln and hands each to handler on its own
// goroutine. It returns nil once ctx is cancelled.
func Serve(ctx context.Context, ln net.Listener, handler func(conn net.Conn), log logger.Logger) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			log.Infof("error accepting connection: %v", err)
			continue
		}

		go handler(conn)
	}
}
