// Package storagekey builds the storage key bytes for System::Account,
// per spec.md §4.3.
package storagekey

import (
	"encoding/hex"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fouge/leger-go/internal/hashes"
)

// Len is the total length of a System::Account storage key: 32-byte
// pallet+item prefix, 16-byte Blake2b-128 of the account id, 32-byte
// account id.
const Len = 32 + 16 + 32

// systemAccountPrefix is twox128("System") ++ twox128("Account"), embedded
// literally per spec.md §4.3 — no runtime twox128 call is needed for this
// specific prefix. internal/hashes.Twox128 reproduces it (see
// internal/hashes/twox128_test.go) for any storage item beyond this one.
var systemAccountPrefix = mustDecodeHex("26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9")

// SystemAccount builds the 80-byte storage key that addresses the
// AccountInfo value for the given 32-byte account id.
func SystemAccount(accountID [32]byte) [Len]byte {
	var out [Len]byte
	copy(out[0:32], systemAccountPrefix)

	keyHash := hashes.Blake2b128(accountID[:])
	copy(out[32:48], keyHash[:])

	copy(out[48:80], accountID[:])
	return out
}

// SystemAccountHex returns the "0x"-prefixed hex encoding of the storage
// key, the exact form the state_getStorage RPC parameter expects
// (spec.md §4.3, step 4: 162 ASCII bytes including the "0x" prefix).
func SystemAccountHex(accountID [32]byte) string {
	key := SystemAccount(accountID)
	return hexutil.Encode(key[:])
}

func mustDecodeHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("storagekey: invalid embedded hex constant: " + err.Error())
	}
	return b
}
