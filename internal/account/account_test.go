package account

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/fouge/leger-go/internal/signer"
)

type fakeStorageClient struct {
	result string
	err    error
	calls  int
}

func (f *fakeStorageClient) GetStorage(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.result, f.err
}

func encodedInfoHex(t *testing.T, nonce uint32, free uint64) string {
	t.Helper()
	var info Info
	info.Nonce = nonce
	info.SetFreeUint64(free)
	wire := info.Encode()
	return "0x" + hex.EncodeToString(wire[:])
}

func TestAccountGetInfoSuccess(t *testing.T) {
	s := signer.GenerateEd25519Signer()
	a := New(s)

	client := &fakeStorageClient{result: encodedInfoHex(t, 7, 1000)}

	info, err := a.GetInfo(context.Background(), client)
	if err != nil {
		t.Fatalf("GetInfo() error = %v", err)
	}
	if info.Nonce != 7 {
		t.Errorf("Nonce = %d, want 7", info.Nonce)
	}

	cached, ok := a.CachedInfo()
	if !ok || cached.Nonce != 7 {
		t.Errorf("CachedInfo() = %+v, %v, want nonce 7", cached, ok)
	}
}

func TestAccountGetInfoFallsBackToCacheOnRPCFailure(t *testing.T) {
	s := signer.GenerateEd25519Signer()
	a := New(s)

	good := &fakeStorageClient{result: encodedInfoHex(t, 3, 500)}
	if _, err := a.GetInfo(context.Background(), good); err != nil {
		t.Fatalf("seed GetInfo() error = %v", err)
	}

	bad := &fakeStorageClient{err: errors.New("transport down")}
	info, err := a.GetInfo(context.Background(), bad)
	if err != nil {
		t.Fatalf("GetInfo() should fall back to cache, got error = %v", err)
	}
	if info.Nonce != 3 {
		t.Errorf("GetInfo() after failure = nonce %d, want cached nonce 3", info.Nonce)
	}
}

func TestAccountGetInfoNoCacheReturnsError(t *testing.T) {
	s := signer.GenerateEd25519Signer()
	a := New(s)

	bad := &fakeStorageClient{err: errors.New("transport down")}
	if _, err := a.GetInfo(context.Background(), bad); err == nil {
		t.Error("GetInfo() with no cache and RPC failure should error")
	}
}

func TestAccountGetInfoParseFailureNeverUsesCache(t *testing.T) {
	s := signer.GenerateEd25519Signer()
	a := New(s)

	good := &fakeStorageClient{result: encodedInfoHex(t, 9, 1)}
	if _, err := a.GetInfo(context.Background(), good); err != nil {
		t.Fatalf("seed GetInfo() error = %v", err)
	}

	bad := &fakeStorageClient{result: "0xdeadbeef"} // wrong length, not an RPC error
	if _, err := a.GetInfo(context.Background(), bad); err == nil {
		t.Error("GetInfo() with malformed storage result should error, not fall back to cache")
	}
}

func TestAccountSS58AndBytes(t *testing.T) {
	s := signer.GenerateEd25519Signer()
	a := New(s)

	if a.Bytes() != s.GetPublic() {
		t.Error("Account.Bytes() should equal the signer's public key")
	}
	if len(a.SS58()) == 0 {
		t.Error("Account.SS58() should not be empty")
	}
}
