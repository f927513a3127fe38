// Package rpc implements the Rpc component spec.md §4.4 describes: a
// JSON-RPC 2.0 session layered over a WebSocket handshake and framing
// (internal/wsframe) carried by a synchronous byte-stream transport
// (internal/transport).
package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/fouge/leger-go/internal/transport"
	"github.com/fouge/leger-go/internal/wsframe"
)

// bufSize is the fixed scratch buffer size for handshake and frame I/O,
// matching spec.md §4.4's in_buf/out_buf sizing.
const bufSize = 4096

// MaxParamBytes bounds a single JSON-RPC request body, spec.md §6's
// MAX_PARAM_BYTES budget.
const MaxParamBytes = 512

// host and origin are fixed per spec.md §4.4: the reference client talks
// to a local node and never needs virtual-hosting or CORS negotiation.
const (
	handshakeHost   = "localhost:9944"
	handshakeOrigin = "http://localhost:9944"
)

// Session is a single JSON-RPC-over-WebSocket connection to a node.
// Concurrent Call invocations are serialized by a mutex, one request and
// its reply at a time; spec.md §9 scopes the client to one connection at
// a time, and Session does not multiplex requests.
type Session struct {
	transport transport.Stack

	mu     sync.Mutex
	cmdID  uint64
	id     uuid.UUID
	inBuf  [bufSize]byte
	outBuf [bufSize]byte
}

// New creates a Session over the given transport. The transport must not
// yet be connected; call Open to perform the TCP connect and WebSocket
// handshake.
func New(t transport.Stack) *Session {
	return &Session{
		transport: t,
		cmdID:     1,
		id:        uuid.New(),
	}
}

// Open validates addr, connects the transport, and performs the
// WebSocket opening handshake (spec.md §4.4).
func (s *Session) Open(ctx context.Context, addr string) error {
	if err := transport.ParseIPv4Port(addr); err != nil {
		return err
	}
	if err := s.transport.Connect(ctx, addr); err != nil {
		return err
	}

	s.mu.Lock()
	n, key := wsframe.ClientHandshakeRequest(s.outBuf[:], handshakeHost, "/", handshakeOrigin)
	written, err := s.transport.Send(s.outBuf[:n])
	if err != nil {
		s.mu.Unlock()
		return err
	}
	if written != n {
		s.mu.Unlock()
		return ErrCountNotMatching
	}

	read, err := s.transport.Receive(s.inBuf[:])
	if err != nil {
		s.mu.Unlock()
		return err
	}
	err = wsframe.ValidateHandshakeAccept(s.inBuf[:read], key)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	slog.Debug("rpc session opened", "session", s.id, "addr", addr)
	return nil
}

// IsConnected reports whether the underlying transport still looks
// connected (spec.md §4.4).
func (s *Session) IsConnected() bool {
	return s.transport.IsConnected()
}

// Close sends a WebSocket close frame and waits for the peer's close
// reply before closing the transport (spec.md §4.4). ErrClosing is
// returned if the peer replies with anything other than a close frame.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.transport.IsConnected() {
		return ErrNotConnected
	}

	payload := []byte{0x03, 0xE8} // status code 1000, Normal Closure
	n, err := wsframe.WriteFrame(s.outBuf[:], wsframe.OpClose, payload)
	if err != nil {
		return err
	}
	if _, err := s.transport.Send(s.outBuf[:n]); err != nil {
		return err
	}

	read, err := s.transport.Receive(s.inBuf[:])
	if err != nil {
		return err
	}
	frame, _, err := wsframe.ParseFrame(s.inBuf[:read])
	if err != nil {
		return err
	}
	if frame.Op != wsframe.OpClose {
		return ErrClosing
	}

	return s.transport.Close()
}

type request struct {
	ID      uint64      `json:"id"`
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *jsonRPCErrObj  `json:"error"`
}

type jsonRPCErrObj struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
}

// Call sends method/params as a JSON-RPC 2.0 request and returns the
// result field decoded as a string (spec.md §4.4: "If result present and
// a string -> return the string"). Endpoints whose result is a JSON
// object (like state_getRuntimeVersion) must use CallRaw instead.
func (s *Session) Call(ctx context.Context, method string, params interface{}) (string, error) {
	raw, err := s.CallRaw(ctx, method, params)
	if err != nil {
		return "", err
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return "", fmt.Errorf("%w: result is not a json string", ErrJSONParse)
	}
	return str, nil
}

// CallRaw sends method/params and returns the response's raw result
// bytes, whatever their JSON shape (string, object, array). spec.md §4.4
// describes the string-only contract for the core Rpc.call operation;
// CallRaw is the adaptation this Go port needs for endpoints like
// state_getRuntimeVersion that return a JSON object.
func (s *Session) CallRaw(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.transport.IsConnected() {
		return nil, ErrNotConnected
	}

	id := s.cmdID
	body, err := json.Marshal(request{ID: id, JSONRPC: "2.0", Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrJSONParse, err)
	}
	if len(body) > MaxParamBytes {
		return nil, ErrPayloadTooLarge
	}
	s.cmdID++

	n, err := wsframe.WriteFrame(s.outBuf[:], wsframe.OpText, body)
	if err != nil {
		return nil, err
	}
	if _, err := s.transport.Send(s.outBuf[:n]); err != nil {
		return nil, err
	}

	for {
		read, err := s.transport.Receive(s.inBuf[:])
		if err != nil {
			return nil, err
		}
		frame, _, err := wsframe.ParseFrame(s.inBuf[:read])
		if err != nil {
			return nil, err
		}

		switch frame.Op {
		case wsframe.OpText:
			var resp response
			if err := json.Unmarshal(frame.Payload, &resp); err != nil {
				return nil, fmt.Errorf("%w: %s", ErrJSONParse, err)
			}
			if resp.ID != id {
				return nil, ErrResponseMismatch
			}
			if resp.Error != nil {
				return nil, &JSONRPCError{Code: resp.Error.Code, Message: resp.Error.Message}
			}
			if resp.Result == nil {
				return nil, ErrJSONParse
			}
			return resp.Result, nil

		case wsframe.OpClose:
			// Peer-initiated close arriving mid-call (spec.md §9, Open
			// Question 5): echo the close frame back, then surface an
			// unknown-frame error rather than silently treating this as
			// a successful result. Distinguishing "remote hung up" from
			// a genuine protocol violation is left for a future pass.
			closeN, werr := wsframe.WriteFrame(s.outBuf[:], wsframe.OpClose, frame.Payload)
			if werr == nil {
				s.transport.Send(s.outBuf[:closeN])
			}
			return nil, ErrUnknownFrame

		default:
			return nil, ErrUnknownFrame
		}
	}
}

// GetStorage implements account.StorageClient via state_getStorage.
func (s *Session) GetStorage(ctx context.Context, hexKey string) (string, error) {
	return s.Call(ctx, "state_getStorage", []string{hexKey})
}
