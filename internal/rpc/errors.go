package rpc

import (
	"errors"
	"fmt"
)

var (
	// ErrCountNotMatching is returned by Open when the number of bytes
	// the transport reports sending doesn't match the handshake request
	// length (spec.md §4.4).
	ErrCountNotMatching = errors.New("rpc: transport did not deliver the full handshake in one send")

	// ErrClosing is returned by Close when the peer's reply to a close
	// frame isn't itself a close frame (spec.md §4.4).
	ErrClosing = errors.New("rpc: unexpected frame while closing")

	// ErrResponseMismatch is returned by Call when the response id
	// doesn't match the request id (spec.md §4.4).
	ErrResponseMismatch = errors.New("rpc: response id does not match request id")

	// ErrJSONParse is returned by Call for malformed or truncated JSON,
	// or a response with neither a usable result nor an error object.
	ErrJSONParse = errors.New("rpc: malformed json-rpc response")

	// ErrUnknownFrame is returned by Call for any inbound frame type
	// that isn't Text (spec.md §4.4's "Unknown" case), and after echoing
	// a close reply to a peer-initiated close received mid-call
	// (spec.md §9, Open Question 5).
	ErrUnknownFrame = errors.New("rpc: unexpected frame type")

	// ErrPayloadTooLarge is returned by Call when the serialized request
	// would exceed MaxParamBytes.
	ErrPayloadTooLarge = errors.New("rpc: request exceeds MAX_PARAM_BYTES")

	// ErrNotConnected is returned by Call/Close when invoked before a
	// successful Open.
	ErrNotConnected = errors.New("rpc: session is not open")
)

// JSONRPCError carries a JSON-RPC error object's numeric code
// (spec.md §7: JsonRpcError(code)).
type JSONRPCError struct {
	Code    int64
	Message string
}

func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("rpc: json-rpc error %d: %s", e.Code, e.Message)
}
