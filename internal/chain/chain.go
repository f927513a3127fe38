// Package chain implements spec.md §4.5's Chain capability: high-level
// chain queries (genesis hash, block hash, finalized head, system and
// runtime metadata) layered over an Rpc session, with lazy reconnect.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RPCClient is the capability Chain needs from whatever owns the
// connection: open/reopen, a liveness check, and the two call shapes
// internal/rpc.Session exposes. Declaring it here (rather than importing
// internal/rpc) keeps Chain importable by internal/provider without a
// cycle.
type RPCClient interface {
	IsConnected() bool
	Open(ctx context.Context, addr string) error
	Call(ctx context.Context, method string, params interface{}) (string, error)
	CallRaw(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

// Chain wraps an RPCClient plus the remote address needed to reopen it,
// and caches the genesis hash once fetched (spec.md §4.5/§4.8).
type Chain struct {
	rpc  RPCClient
	addr string

	mu      sync.Mutex
	genesis *[32]byte
}

// New creates a Chain over rpc, talking to addr for lazy reconnects.
func New(rpc RPCClient, addr string) *Chain {
	return &Chain{rpc: rpc, addr: addr}
}

// ensureConnected reopens the connection if it has dropped, matching
// spec.md §4.5/§4.8: "All methods re-open the connection lazily when
// !is_connected()."
func (c *Chain) ensureConnected(ctx context.Context) error {
	if c.rpc.IsConnected() {
		return nil
	}
	return c.rpc.Open(ctx, c.addr)
}

// GetBlockHash fetches chain_getBlockHash for number (or the current
// best block if number is nil) and decodes the result as a 32-byte hash.
func (c *Chain) GetBlockHash(ctx context.Context, number *uint64) ([32]byte, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return [32]byte{}, err
	}

	var params interface{}
	if number != nil {
		params = []uint64{*number}
	}

	result, err := c.rpc.Call(ctx, "chain_getBlockHash", params)
	if err != nil {
		return [32]byte{}, err
	}
	return decodeHash32(result)
}

// GetGenesisBlockHash returns the cached genesis hash, fetching and
// caching it via GetBlockHash(0) on first use.
func (c *Chain) GetGenesisBlockHash(ctx context.Context) ([32]byte, error) {
	c.mu.Lock()
	if c.genesis != nil {
		hash := *c.genesis
		c.mu.Unlock()
		return hash, nil
	}
	c.mu.Unlock()

	zero := uint64(0)
	hash, err := c.GetBlockHash(ctx, &zero)
	if err != nil {
		return [32]byte{}, err
	}

	c.mu.Lock()
	c.genesis = &hash
	c.mu.Unlock()
	return hash, nil
}

// GetFinalizedHead returns the raw chain_getFinalizedHead result string.
func (c *Chain) GetFinalizedHead(ctx context.Context) (string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}
	return c.rpc.Call(ctx, "chain_getFinalizedHead", nil)
}

// SystemName returns the raw system_name result string.
func (c *Chain) SystemName(ctx context.Context) (string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}
	return c.rpc.Call(ctx, "system_name", nil)
}

// SystemVersion returns the raw system_version result string.
func (c *Chain) SystemVersion(ctx context.Context) (string, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return "", err
	}
	return c.rpc.Call(ctx, "system_version", nil)
}

// RuntimeVersion returns state_getRuntimeVersion's full JSON object
// result, since unlike the other Chain queries its result isn't a bare
// string (spec.md §4.5).
func (c *Chain) RuntimeVersion(ctx context.Context) (json.RawMessage, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	return c.rpc.CallRaw(ctx, "state_getRuntimeVersion", nil)
}

func decodeHash32(s string) ([32]byte, error) {
	decoded, err := hexutil.Decode(s)
	if err != nil {
		return [32]byte{}, fmt.Errorf("%w: %s", ErrCannotParse, err)
	}
	if len(decoded) != 32 {
		return [32]byte{}, fmt.Errorf("%w: got %d bytes, want 32", ErrCannotParse, len(decoded))
	}
	var out [32]byte
	copy(out[:], decoded)
	return out, nil
}
