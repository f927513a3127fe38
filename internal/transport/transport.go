// Package transport defines the TransportStack boundary capability
// spec.md §6 describes: a synchronous send/receive abstraction over a
// stream socket, implemented by the embedder. This package also ships a
// net.Conn-backed adapter (Dialer) for hosted (non-bare-metal) use.
package transport

import (
	"context"
	"net"
	"time"
)

// Stack is the capability internal/rpc.Session depends on (spec.md §6's
// TransportStack). Implementations are expected to be synchronous and
// blocking; Receive may return ErrWouldBlock if a read deadline expires
// without data, which internal/rpc returns to its caller unchanged.
type Stack interface {
	// Connect blocks until a TCP connection to addr (already validated as
	// "A.B.C.D:port") is established, or returns an error.
	Connect(ctx context.Context, addr string) error

	// IsConnected reports whether the underlying socket still looks
	// connected. Any error from the underlying check is mapped to false
	// (spec.md §4.4).
	IsConnected() bool

	// Send writes buf in full and returns the number of bytes written.
	Send(buf []byte) (int, error)

	// Receive reads into buf and returns the number of bytes read.
	Receive(buf []byte) (int, error)

	// Close closes the socket.
	Close() error
}

// Dialer is a Stack backed by a real net.Conn (TCP), the reference
// adapter used by cmd/legerctl and cmd/legerd. It is not part of the spec's embedded
// core; spec.md §1 treats TransportStack as an external collaborator
// supplied by the embedder, and this is one concrete such embedder.
type Dialer struct {
	conn        net.Conn
	readTimeout time.Duration
}

// NewDialer creates a Dialer. readTimeout is applied to every Receive
// call; spec.md §5 notes the reference Unix adapter uses a 2-second read
// timeout and an expired deadline surfaces as ErrWouldBlock.
func NewDialer(readTimeout time.Duration) *Dialer {
	return &Dialer{readTimeout: readTimeout}
}

func (d *Dialer) Connect(ctx context.Context, addr string) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp4", addr)
	if err != nil {
		return &Error{Op: "connect", Addr: addr, Err: err}
	}
	d.conn = conn
	return nil
}

func (d *Dialer) IsConnected() bool {
	if d.conn == nil {
		return false
	}
	// SetKeepAlive serves as a cheap probe: it errors once the socket has
	// been closed locally. A peer that has gone away is not detected here.
	if tc, ok := d.conn.(*net.TCPConn); ok {
		if err := tc.SetKeepAlive(true); err != nil {
			return false
		}
	}
	return true
}

func (d *Dialer) Send(buf []byte) (int, error) {
	if d.conn == nil {
		return 0, ErrNotConnected
	}
	n, err := d.conn.Write(buf)
	if err != nil {
		return n, &Error{Op: "send", Err: err}
	}
	return n, nil
}

func (d *Dialer) Receive(buf []byte) (int, error) {
	if d.conn == nil {
		return 0, ErrNotConnected
	}
	if d.readTimeout > 0 {
		if err := d.conn.SetReadDeadline(time.Now().Add(d.readTimeout)); err != nil {
			return 0, &Error{Op: "receive", Err: err}
		}
	}
	n, err := d.conn.Read(buf)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return n, ErrWouldBlock
		}
		return n, &Error{Op: "receive", Err: err}
	}
	return n, nil
}

func (d *Dialer) Close() error {
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	if err != nil {
		return &Error{Op: "close", Err: err}
	}
	return nil
}
