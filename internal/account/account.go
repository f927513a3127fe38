// Package account implements spec.md's Account component (L4): a public
// key plus a cached AccountInfo and a non-owning reference to an external
// Signer.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fouge/leger-go/internal/signer"
	"github.com/fouge/leger-go/internal/ss58"
	"github.com/fouge/leger-go/internal/storagekey"
)

// StorageClient is the minimal capability Account needs from whatever
// owns the RPC connection: state_getStorage by hex key. Both
// *rpc.Session and *provider.Provider satisfy it, which keeps this
// package from importing either (account sits below provider in spec.md's
// layering, L4 vs L7).
type StorageClient interface {
	GetStorage(ctx context.Context, hexKey string) (string, error)
}

// Account owns a 32-byte public key, an optional cached AccountInfo (the
// last successfully fetched value), and a reference to the Signer that
// must outlive it (spec.md §3/§9).
type Account struct {
	public [32]byte
	signer signer.Signer

	mu   sync.Mutex
	info *Info // nil until the first successful GetInfo
}

// New creates an Account from a Signer. s must not be nil and must
// outlive the returned Account; Go has no borrow checker to enforce this,
// so callers own the contract.
func New(s signer.Signer) *Account {
	if s == nil {
		panic("account: signer must not be nil")
	}
	a := &Account{
		public: s.GetPublic(),
		signer: s,
	}
	slog.Debug("account created", "ss58", a.SS58())
	return a
}

// Bytes returns the account's raw 32-byte public key (spec.md's u8a()).
func (a *Account) Bytes() [32]byte {
	return a.public
}

// SS58 returns the SS58-encoded address for the account's public key
// under the Generic Substrate network prefix (spec.md's ss58()).
func (a *Account) SS58() string {
	return ss58.EncodeGeneric(a.public)
}

// CachedInfo returns the most recently fetched AccountInfo, if any.
func (a *Account) CachedInfo() (Info, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.info == nil {
		return Info{}, false
	}
	return *a.info, true
}

// GetInfo fetches AccountInfo via state_getStorage. On success the cache
// is updated and the fresh value returned. On RPC/transport failure, the
// cached value is returned instead if one exists (spec.md §3/§7); on
// parse failure (bad hex, wrong length) the cache is never substituted —
// a parse failure always propagates.
func (a *Account) GetInfo(ctx context.Context, client StorageClient) (Info, error) {
	key := storagekey.SystemAccountHex(a.public)

	result, err := client.GetStorage(ctx, key)
	if err != nil {
		a.mu.Lock()
		cached := a.info
		a.mu.Unlock()
		if cached != nil {
			slog.Warn("account info fetch failed, serving cache",
				"ss58", a.SS58(),
				"error", err,
			)
			return *cached, nil
		}
		return Info{}, fmt.Errorf("%w: %s", ErrCannotFetch, err)
	}

	decoded, decErr := hexutil.Decode(result)
	if decErr != nil {
		return Info{}, fmt.Errorf("%w: %s", ErrParse, decErr)
	}

	info, decErr := DecodeInfo(decoded)
	if decErr != nil {
		return Info{}, decErr
	}

	a.mu.Lock()
	a.info = &info
	a.mu.Unlock()

	slog.Debug("account info fetched",
		"ss58", a.SS58(),
		"nonce", info.Nonce,
	)
	return info, nil
}

// GetBalance returns AccountInfo.Free via GetInfo.
func (a *Account) GetBalance(ctx context.Context, client StorageClient) ([16]byte, error) {
	info, err := a.GetInfo(ctx, client)
	if err != nil {
		return [16]byte{}, err
	}
	return info.Free, nil
}

// GetNonce returns AccountInfo.Nonce via GetInfo.
func (a *Account) GetNonce(ctx context.Context, client StorageClient) (uint32, error) {
	info, err := a.GetInfo(ctx, client)
	if err != nil {
		return 0, err
	}
	return info.Nonce, nil
}

// SignTx delegates to the underlying Signer.
func (a *Account) SignTx(payload []byte, sigOut *[64]byte) {
	a.signer.Sign(payload, sigOut)
}

// Signer returns the Account's underlying signer, for components (like
// internal/extrinsic) that need the signer's scheme alongside the
// account's public key.
func (a *Account) Signer() signer.Signer {
	return a.signer
}
