package ss58

import "errors"

var (
	// ErrInvalidLength is returned by Decode when the base58-decoded byte
	// slice is not exactly 1 (prefix) + 32 (key) + 2 (checksum) bytes.
	ErrInvalidLength = errors.New("ss58: invalid decoded length")

	// ErrChecksumMismatch is returned by Decode when the trailing two
	// checksum bytes don't match the recomputed Blake2b-512 checksum.
	ErrChecksumMismatch = errors.New("ss58: checksum mismatch")
)
