package extrinsic

import "errors"

// ErrBufferTooSmall is returned by Call.Encode, BuildSigningPayload, and
// BuildSigned when the caller-supplied buffer can't hold the encoded
// bytes.
var ErrBufferTooSmall = errors.New("extrinsic: output buffer too small")
