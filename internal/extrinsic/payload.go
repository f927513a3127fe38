package extrinsic

import (
	"encoding/binary"

	"github.com/fouge/leger-go/internal/hashes"
	"github.com/fouge/leger-go/internal/scale"
)

// Era byte values. Only Immortal is supported (spec.md §4.3's types
// section and §4.7); mortal eras are an explicit Non-goal.
const EraImmortal byte = 0x00

// signingPayloadHashThreshold is the length past which the signing
// payload is hashed with Blake2b-256 before being handed to the Signer,
// rather than signed directly (spec.md §9, Open Question 4). The
// hardcoded runtime/transaction versions and single-call payloads this
// client builds never reach it, but the fallback is implemented so a
// future caller with a larger call doesn't silently get an out-of-spec
// signature.
const signingPayloadHashThreshold = 256

// Payload is the transient builder spec.md §3 describes: everything
// needed to compute the bytes a Signer signs.
type Payload struct {
	Call               Call
	Nonce              uint32
	Tip                uint64 // always 0 in this version (spec.md §3)
	SpecVersion        uint32
	TransactionVersion uint32
	GenesisHash        [32]byte
	CheckpointHash     [32]byte // equal to GenesisHash for Immortal
}

// maxCallEncodingLen bounds the scratch TransferCall.Encode writes into;
// 1+1+1+32+17 rounded up.
const maxCallEncodingLen = 64

// BuildSigningPayload writes the signing-payload bytes (spec.md §4.7) to
// out: encoded call, era byte, compact(nonce), compact(tip), the two
// version u32s little-endian, genesis hash, checkpoint hash.
func BuildSigningPayload(p Payload, out []byte) (int, error) {
	var callBuf [maxCallEncodingLen]byte
	callLen, err := p.Call.Encode(callBuf[:])
	if err != nil {
		return 0, err
	}

	need := callLen + 1 + 17 + 17 + 4 + 4 + 32 + 32
	if len(out) < need {
		return 0, ErrBufferTooSmall
	}

	pos := copy(out, callBuf[:callLen])
	out[pos] = EraImmortal
	pos++
	pos += scale.EncodeCompact(uint64(p.Nonce), out[pos:])
	pos += scale.EncodeCompact(p.Tip, out[pos:])
	binary.LittleEndian.PutUint32(out[pos:], p.SpecVersion)
	pos += 4
	binary.LittleEndian.PutUint32(out[pos:], p.TransactionVersion)
	pos += 4
	pos += copy(out[pos:], p.GenesisHash[:])
	pos += copy(out[pos:], p.CheckpointHash[:])
	return pos, nil
}

// SigningBytes returns what the Signer should actually sign: payload
// itself if it's 256 bytes or shorter, otherwise its Blake2b-256 digest
// (spec.md §9, Open Question 4).
func SigningBytes(payload []byte) []byte {
	if len(payload) <= signingPayloadHashThreshold {
		return payload
	}
	hash := hashes.Blake2b256(payload)
	return hash[:]
}
