package extrinsic

import (
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fouge/leger-go/internal/scale"
)

// MaxSignedExtrinsicBytes bounds the signed-extrinsic buffer
// (spec.md §6's MAX_PAYLOAD_BYTES=252).
const MaxSignedExtrinsicBytes = 252

// EncodeSubmission length-prefixes signed (with a SCALE compact encoding
// of its length) and hex-encodes the result as author_submitExtrinsic's
// single positional string parameter: "0x" ++ hex(compact(len) ++ body)
// (spec.md §4.7).
func EncodeSubmission(signed []byte) string {
	var lenBuf [9]byte
	n := scale.EncodeCompact(uint64(len(signed)), lenBuf[:])

	full := make([]byte, n+len(signed))
	copy(full, lenBuf[:n])
	copy(full[n:], signed)

	return hexutil.Encode(full)
}
