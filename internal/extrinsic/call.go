package extrinsic

import "github.com/fouge/leger-go/internal/scale"

// Pallet/call indices for the one call this client knows how to build
// (spec.md §4.7).
const (
	BalancesModuleIndex byte = 0x05
	TransferCallIndex   byte = 0x00

	// accountID32Discriminant is the MultiAddress::Id tag that precedes
	// the destination AccountId32 inside a TransferCall's arguments.
	// Unlike the signer-pubkey discriminant (see BuildOptions in
	// build.go, spec.md §9 Open Question 3), this one is always present
	// — it's part of the call's own argument encoding, not the outer
	// extrinsic header.
	accountID32Discriminant byte = 0xFF
)

// Call is anything that can SCALE-encode itself as a dispatchable call:
// pallet index, call index, then call-specific arguments.
type Call interface {
	Encode(out []byte) (int, error)
}

// TransferCall is balances.transfer(dest, amount) (spec.md §4.7).
type TransferCall struct {
	Dest     [32]byte
	AmountLo uint64
	AmountHi uint64
}

// NewTransferCall builds a TransferCall for an amount that fits in 64
// bits, the common case (spec.md §8.3's worked example uses
// 2921503981796281).
func NewTransferCall(dest [32]byte, amount uint64) TransferCall {
	return TransferCall{Dest: dest, AmountLo: amount}
}

// Encode writes [0x05, 0x00, 0xFF, dest[32], compact(amount)] to out.
func (c TransferCall) Encode(out []byte) (int, error) {
	const fixedLen = 1 + 1 + 1 + 32
	if len(out) < fixedLen+17 {
		return 0, ErrBufferTooSmall
	}

	out[0] = BalancesModuleIndex
	out[1] = TransferCallIndex
	out[2] = accountID32Discriminant
	copy(out[3:3+32], c.Dest[:])

	n := scale.EncodeCompactU128(c.AmountHi, c.AmountLo, out[fixedLen:])
	return fixedLen + n, nil
}
