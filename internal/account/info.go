package account

import (
	"encoding/binary"
	"fmt"
)

// InfoLen is the fixed wire length of AccountInfo: 4 (nonce) + 4
// (consumers/ref_count) + 16*4 (free/reserved/misc_frozen/fee_frozen),
// per spec.md §3.
const InfoLen = 4 + 4 + 16 + 16 + 16 + 16

// Info mirrors frame_system::AccountInfo's on-chain layout (spec.md §3):
// a contiguous 72-byte little-endian byte sequence. Fields are decoded
// explicitly rather than reinterpreted in place (spec.md §9 calls out the
// source's unsafe buffer reinterpretation as something to replace with
// explicit little-endian deserialization).
type Info struct {
	Nonce       uint32
	Consumers   uint32
	Free        [16]byte // u128, little-endian
	Reserved    [16]byte
	MiscFrozen  [16]byte
	FeeFrozen   [16]byte
}

// DecodeInfo decodes a 72-byte AccountInfo from raw. Any length other than
// InfoLen is a parse failure (spec.md §3 invariant).
func DecodeInfo(raw []byte) (Info, error) {
	if len(raw) != InfoLen {
		return Info{}, fmt.Errorf("%w: got %d bytes, want %d", ErrBadInfoLength, len(raw), InfoLen)
	}

	var info Info
	info.Nonce = binary.LittleEndian.Uint32(raw[0:4])
	info.Consumers = binary.LittleEndian.Uint32(raw[4:8])
	copy(info.Free[:], raw[8:24])
	copy(info.Reserved[:], raw[24:40])
	copy(info.MiscFrozen[:], raw[40:56])
	copy(info.FeeFrozen[:], raw[56:72])
	return info, nil
}

// Encode writes the 72-byte wire form of info, primarily used by tests
// and the fake RPC peer in internal/rpc/rpctest.
func (info Info) Encode() [InfoLen]byte {
	var out [InfoLen]byte
	binary.LittleEndian.PutUint32(out[0:4], info.Nonce)
	binary.LittleEndian.PutUint32(out[4:8], info.Consumers)
	copy(out[8:24], info.Free[:])
	copy(out[24:40], info.Reserved[:])
	copy(out[40:56], info.MiscFrozen[:])
	copy(out[56:72], info.FeeFrozen[:])
	return out
}

// FreeUint128LE returns Free's two little-endian 64-bit halves (lo, hi),
// the representation internal/scale.EncodeCompactU128 consumes.
func (info Info) FreeUint128LE() (lo, hi uint64) {
	return binary.LittleEndian.Uint64(info.Free[0:8]), binary.LittleEndian.Uint64(info.Free[8:16])
}

// SetFreeUint64 sets Free to a plain uint64 value (helper for tests and
// the cmd/ examples, where balances fit comfortably in 64 bits).
func (info *Info) SetFreeUint64(v uint64) {
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], v)
	info.Free = b
}
