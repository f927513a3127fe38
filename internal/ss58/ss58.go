// Package ss58 implements the SS58 address encoding used by Substrate
// chains (spec.md §4.2).
package ss58

import (
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/fouge/leger-go/internal/hashes"
)

// GenericNetworkPrefix is the "Generic Substrate" network prefix byte.
const GenericNetworkPrefix byte = 0x2A

const checksumPrefix = "SS58PRE"

// KeyLen is the fixed length of a Substrate account public key.
const KeyLen = 32

// Encode encodes a 32-byte public key as an SS58 address string using the
// given network prefix byte.
func Encode(key [KeyLen]byte, prefix byte) string {
	body := make([]byte, 0, 1+KeyLen)
	body = append(body, prefix)
	body = append(body, key[:]...)

	checksum := blake2bChecksum(body)

	addressBytes := make([]byte, 0, len(body)+2)
	addressBytes = append(addressBytes, body...)
	addressBytes = append(addressBytes, checksum[:2]...)

	return base58.Encode(addressBytes)
}

// EncodeGeneric encodes key using the Generic Substrate network prefix
// (0x2A), matching spec.md's Ss58 component.
func EncodeGeneric(key [KeyLen]byte) string {
	return Encode(key, GenericNetworkPrefix)
}

// Decode reverses Encode, validating the checksum and returning the
// 32-byte public key and the network prefix byte it was encoded with.
func Decode(address string) (key [KeyLen]byte, prefix byte, err error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return key, 0, fmt.Errorf("ss58 base58 decode: %w", err)
	}

	if len(raw) != 1+KeyLen+2 {
		return key, 0, fmt.Errorf("%w: decoded length %d, want %d", ErrInvalidLength, len(raw), 1+KeyLen+2)
	}

	body := raw[:1+KeyLen]
	wantChecksum := raw[1+KeyLen:]

	checksum := blake2bChecksum(body)
	if checksum[0] != wantChecksum[0] || checksum[1] != wantChecksum[1] {
		return key, 0, ErrChecksumMismatch
	}

	prefix = body[0]
	copy(key[:], body[1:])
	return key, prefix, nil
}

func blake2bChecksum(body []byte) [64]byte {
	preimage := make([]byte, 0, len(checksumPrefix)+len(body))
	preimage = append(preimage, checksumPrefix...)
	preimage = append(preimage, body...)
	return hashes.Blake2b512(preimage)
}
