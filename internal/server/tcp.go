package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/phuslu/log"
)

// Start runs a TCP accept loop on the given port, dispatching every
// connection to handler in its own goroutine. If the port is taken, the next
// one is tried until a listener binds. Cancelling ctx closes the listener
// and returns nil once the loop drains.
func Start(ctx context.Context, port int, handler func(conn net.Conn)) error {
	var ln net.Listener
	var err error

	for {
		ln, err = net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			if errors.Is(err, syscall.EADDRINUSE) {
				port++
				continue
			}
			return err
		}
		break
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			// Accept fails once the listener is closed; that is the
			// shutdown path.
			select {
			case <-ctx.Done():
				return nil
			default:
				log.Error().Err(err).Msg("accept failed")
				continue
			}
		}

		go handler(conn)
	}
}
