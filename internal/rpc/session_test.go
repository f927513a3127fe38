package rpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fouge/leger-go/internal/account"
	"github.com/fouge/leger-go/internal/rpc/rpctest"
)

// Compile-time assertion that Session satisfies account's narrow
// storage-fetch capability.
var _ account.StorageClient = (*Session)(nil)

func mustRaw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	return b
}

func TestSessionOpenCallClose(t *testing.T) {
	ft := rpctest.New(map[string]rpctest.Handler{
		"system_name": func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
			return rpctest.Outcome{Result: mustRaw(t, "Leger")}
		},
	})

	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !s.IsConnected() {
		t.Fatal("IsConnected() = false after Open")
	}

	name, err := s.Call(context.Background(), "system_name", nil)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if name != "Leger" {
		t.Errorf("Call() = %q, want %q", name, "Leger")
	}

	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if s.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
}

func TestSessionCallJSONRPCError(t *testing.T) {
	ft := rpctest.New(map[string]rpctest.Handler{})
	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err := s.Call(context.Background(), "nonexistent_method", nil)
	var rpcErr *JSONRPCError
	if err == nil {
		t.Fatal("expected an error for an unregistered method")
	}
	if e, ok := err.(*JSONRPCError); !ok {
		t.Fatalf("Call() error type = %T, want *JSONRPCError", err)
	} else {
		rpcErr = e
	}
	if rpcErr.Code != -32601 {
		t.Errorf("Code = %d, want -32601", rpcErr.Code)
	}
}

func TestSessionCallResponseMismatch(t *testing.T) {
	ft := rpctest.New(map[string]rpctest.Handler{
		"chain_getBlockHash": func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
			bad, _ := json.Marshal(map[string]interface{}{"id": id + 1, "result": "0xdeadbeef"})
			return rpctest.Outcome{RawPayload: bad}
		},
	})
	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err := s.Call(context.Background(), "chain_getBlockHash", nil)
	if err != ErrResponseMismatch {
		t.Errorf("Call() error = %v, want ErrResponseMismatch", err)
	}
}

func TestSessionCallCloseMidCall(t *testing.T) {
	ft := rpctest.New(map[string]rpctest.Handler{
		"system_name": func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
			return rpctest.Outcome{CloseInstead: true}
		},
	})
	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	_, err := s.Call(context.Background(), "system_name", nil)
	if err != ErrUnknownFrame {
		t.Errorf("Call() error = %v, want ErrUnknownFrame", err)
	}

	last := ft.Sent[len(ft.Sent)-1]
	if last[0]&0x0F != 0x8 {
		t.Errorf("expected an echoed close frame, opcode byte = %x", last[0])
	}
}

func TestSessionCallRawObjectResult(t *testing.T) {
	ft := rpctest.New(map[string]rpctest.Handler{
		"state_getRuntimeVersion": func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
			return rpctest.Outcome{Result: mustRaw(t, map[string]interface{}{
				"specVersion":        100,
				"transactionVersion": 1,
			})}
		},
	})
	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	raw, err := s.CallRaw(context.Background(), "state_getRuntimeVersion", nil)
	if err != nil {
		t.Fatalf("CallRaw() error = %v", err)
	}
	var v struct {
		SpecVersion        int `json:"specVersion"`
		TransactionVersion int `json:"transactionVersion"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if v.SpecVersion != 100 || v.TransactionVersion != 1 {
		t.Errorf("decoded = %+v, want specVersion=100 transactionVersion=1", v)
	}
}

func TestSessionGetStorage(t *testing.T) {
	const key = "0x26aa394eea5630e07c48ae0c9558cef7b99d880ec681799c0cf30e8886371da9"
	ft := rpctest.New(map[string]rpctest.Handler{
		"state_getStorage": func(id uint64, method string, params json.RawMessage) rpctest.Outcome {
			var got []string
			json.Unmarshal(params, &got)
			if len(got) != 1 || got[0] != key {
				t.Errorf("state_getStorage params = %v, want [%s]", got, key)
			}
			return rpctest.Outcome{Result: mustRaw(t, "0x1234")}
		},
	})
	s := New(ft)
	if err := s.Open(context.Background(), "127.0.0.1:9944"); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, err := s.GetStorage(context.Background(), key)
	if err != nil {
		t.Fatalf("GetStorage() error = %v", err)
	}
	if got != "0x1234" {
		t.Errorf("GetStorage() = %q, want %q", got, "0x1234")
	}
}
