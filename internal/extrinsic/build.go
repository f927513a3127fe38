package extrinsic

import (
	"github.com/fouge/leger-go/internal/scale"
	"github.com/fouge/leger-go/internal/signer"
)

// SignedVersionByte is the V4 signed-extrinsic version byte (spec.md
// §4.7).
const SignedVersionByte byte = 0x84

// BuildOptions tunes the signed-extrinsic header's signer-address
// encoding. The spec's reference layout omits the standard MultiAddress
// discriminant byte that normally precedes an AccountId32 (spec.md §9,
// Open Question 3); that's the default here too, for byte-for-byte
// compatibility with spec.md §8.3's worked example. Set
// MultiAddressDiscriminant to emit the 0x00 discriminant modern
// Substrate chains expect.
type BuildOptions struct {
	MultiAddressDiscriminant bool
}

// BuildSigned writes the signed-extrinsic bytes (spec.md §4.7) to out:
//
//	0x84 [0x00]? pubkey[32] scheme sig[64] era compact(nonce) compact(tip) call
//
// scheme is the signature-scheme tag byte (0x00 Ed25519, 0x01 Sr25519,
// 0x02 Ecdsa — internal/signer.Scheme); sig is the 64-byte signature
// over SigningBytes(the same payload BuildSigningPayload produced).
func BuildSigned(p Payload, pub [32]byte, scheme signer.Scheme, sig [64]byte, opts BuildOptions, out []byte) (int, error) {
	var callBuf [maxCallEncodingLen]byte
	callLen, err := p.Call.Encode(callBuf[:])
	if err != nil {
		return 0, err
	}

	need := 1 + 32 + 1 + 64 + 1 + 17 + 17 + callLen
	if opts.MultiAddressDiscriminant {
		need++
	}
	if len(out) < need {
		return 0, ErrBufferTooSmall
	}

	pos := 0
	out[pos] = SignedVersionByte
	pos++
	if opts.MultiAddressDiscriminant {
		out[pos] = 0x00
		pos++
	}
	pos += copy(out[pos:], pub[:])
	out[pos] = byte(scheme)
	pos++
	pos += copy(out[pos:], sig[:])
	out[pos] = EraImmortal
	pos++
	pos += scale.EncodeCompact(uint64(p.Nonce), out[pos:])
	pos += scale.EncodeCompact(p.Tip, out[pos:])
	pos += copy(out[pos:], callBuf[:callLen])

	return pos, nil
}
