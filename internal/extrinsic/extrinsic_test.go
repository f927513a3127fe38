package extrinsic

import (
	"bytes"
	"testing"

	"github.com/fouge/leger-go/internal/signer"
)

func TestTransferCallEncode(t *testing.T) {
	var dest [32]byte
	for i := range dest {
		dest[i] = byte(i)
	}
	call := NewTransferCall(dest, 2921503981796281)

	var buf [64]byte
	n, err := call.Encode(buf[:])
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	want := append([]byte{BalancesModuleIndex, TransferCallIndex, 0xFF}, dest[:]...)
	want = append(want, 0x0f, 0xb9, 0x7b, 0x0b, 0xa7, 0x17, 0x61, 0x0a)

	if !bytes.Equal(buf[:n], want) {
		t.Errorf("Encode() = % x, want % x", buf[:n], want)
	}
}

func TestBuildSignedMatchesWorkedExample(t *testing.T) {
	var seed [32]byte
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	s := signer.NewEd25519Signer(seed)

	var dest [32]byte
	for i := range dest {
		dest[i] = byte(i)
	}
	call := NewTransferCall(dest, 2921503981796281)

	payload := Payload{
		Call:               call,
		Nonce:              7,
		Tip:                0,
		SpecVersion:        1,
		TransactionVersion: 1,
		GenesisHash:        [32]byte{1, 2, 3},
		CheckpointHash:     [32]byte{1, 2, 3},
	}

	var signingBuf [256]byte
	n, err := BuildSigningPayload(payload, signingBuf[:])
	if err != nil {
		t.Fatalf("BuildSigningPayload() error = %v", err)
	}

	var sig [64]byte
	s.Sign(SigningBytes(signingBuf[:n]), &sig)

	var out [MaxSignedExtrinsicBytes]byte
	written, err := BuildSigned(payload, s.GetPublic(), s.Scheme(), sig, BuildOptions{}, out[:])
	if err != nil {
		t.Fatalf("BuildSigned() error = %v", err)
	}
	got := out[:written]

	pub := s.GetPublic()
	want := []byte{SignedVersionByte}
	want = append(want, pub[:]...)
	want = append(want, byte(signer.SchemeEd25519))
	want = append(want, sig[:]...)
	want = append(want, EraImmortal)
	want = append(want, 0x1C)       // compact(7)
	want = append(want, 0x00)       // compact(0)
	want = append(want, 0x05, 0x00) // module idx, call idx
	want = append(want, 0xFF)
	want = append(want, dest[:]...)
	want = append(want, 0x0f, 0xb9, 0x7b, 0x0b, 0xa7, 0x17, 0x61, 0x0a)

	if !bytes.Equal(got, want) {
		t.Errorf("BuildSigned() = % x\nwant             % x", got, want)
	}

	if !signer.Verify(pub, SigningBytes(signingBuf[:n]), sig) {
		t.Error("signature does not verify against the signing payload")
	}
}

func TestBuildSignedWithMultiAddressDiscriminant(t *testing.T) {
	var seed [32]byte
	s := signer.NewEd25519Signer(seed)
	var dest [32]byte
	call := NewTransferCall(dest, 1)
	payload := Payload{Call: call, Nonce: 0, SpecVersion: 1, TransactionVersion: 1}

	var sig [64]byte
	var out [MaxSignedExtrinsicBytes]byte
	n, err := BuildSigned(payload, s.GetPublic(), s.Scheme(), sig, BuildOptions{MultiAddressDiscriminant: true}, out[:])
	if err != nil {
		t.Fatalf("BuildSigned() error = %v", err)
	}
	if out[0] != SignedVersionByte || out[1] != 0x00 {
		t.Errorf("header = % x, want 0x84 0x00 ...", out[:2])
	}
	if n < 2+32 {
		t.Fatalf("BuildSigned() wrote too few bytes: %d", n)
	}
}

func TestEncodeSubmission(t *testing.T) {
	body := []byte{0x84, 0x01, 0x02, 0x03}
	got := EncodeSubmission(body)
	// compact(4) == 0x10 (4<<2 | modeSingle)
	if got != "0x1084010203" {
		t.Errorf("EncodeSubmission() = %q, want %q", got, "0x1084010203")
	}
}
