// Package hashes provides the hash primitives storage-key derivation
// depends on: Substrate's twox128 (two-round xxHash64) and thin wrappers
// around Blake2b-128/256/512 used by the ss58, storagekey, and extrinsic
// packages.
package hashes

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/crypto/blake2b"
)

// Twox128 computes Substrate's twox128 hash: two independent xxHash64
// digests of data, seeded 0 and 1, concatenated little-endian. This is
// the general-purpose primitive; spec.md §4.3 notes the specific
// "System"+"Account" prefix is embedded as a literal constant and needs
// no runtime computation, but Twox128 is kept for any storage item beyond
// System::Account and is verified against that literal constant in tests.
func Twox128(data []byte) [16]byte {
	var out [16]byte
	binary.LittleEndian.PutUint64(out[0:8], xxhashSeeded(data, 0))
	binary.LittleEndian.PutUint64(out[8:16], xxhashSeeded(data, 1))
	return out
}

func xxhashSeeded(data []byte, seed uint64) uint64 {
	d := xxhash.NewWithSeed(seed)
	_, _ = d.Write(data)
	return d.Sum64()
}

// Blake2b128 returns the Blake2b digest of data with a 16-byte output
// length, the "Blake2b-128" primitive spec.md uses for per-account storage
// key hashing (§4.3).
func Blake2b128(data []byte) [16]byte {
	h, _ := blake2b.New(16, nil) // errors only for an invalid size or key
	h.Write(data)
	var out [16]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Blake2b512 returns the full Blake2b-512 digest of data, used for the
// SS58 checksum (spec.md §4.2).
func Blake2b512(data []byte) [64]byte {
	return blake2b.Sum512(data)
}

// Blake2b256 returns the Blake2b-256 digest of data, used as the
// signing-payload hash fallback for payloads longer than 256 bytes
// (spec.md §9, Open Question 4).
func Blake2b256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}
