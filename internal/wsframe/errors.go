package wsframe

import "errors"

var (
	// ErrBufferTooSmall is returned by WriteFrame when out can't hold the
	// encoded frame; the caller is responsible for sizing its buffer
	// (spec.md's ScaleCompact contract uses the same convention).
	ErrBufferTooSmall = errors.New("wsframe: output buffer too small")

	// ErrShortFrame is returned by ParseFrame when in doesn't yet contain
	// a complete frame.
	ErrShortFrame = errors.New("wsframe: incomplete frame")

	// ErrMaskedServerFrame is returned by ParseFrame when a server frame
	// has the mask bit set, which RFC 6455 forbids.
	ErrMaskedServerFrame = errors.New("wsframe: server frame must not be masked")

	// ErrHandshakeFailed is returned by ValidateHandshakeAccept when the
	// peer's response isn't a valid 101 Switching Protocols upgrade.
	ErrHandshakeFailed = errors.New("wsframe: handshake failed")
)
