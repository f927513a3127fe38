package account

import "errors"

var (
	// ErrCannotFetch is returned by GetInfo when the storage fetch fails
	// and there is no cached AccountInfo to fall back to.
	ErrCannotFetch = errors.New("account: cannot fetch account info")

	// ErrParse is returned by GetInfo when the RPC result isn't valid hex.
	ErrParse = errors.New("account: cannot parse storage result")

	// ErrBadInfoLength is returned by DecodeInfo when raw isn't exactly
	// InfoLen bytes.
	ErrBadInfoLength = errors.New("account: account info is not 72 bytes")
)
