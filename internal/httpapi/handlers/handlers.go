// Package handlers implements cmd/legerd's HTTP surface: thin adapters
// between net/http and internal/provider.Provider, following the
// teacher's internal/api/handlers conventions (handler factories closing
// over their dependencies, JSON responses via encoding/json).
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-chi/chi/v5"

	"github.com/fouge/leger-go/internal/account"
	"github.com/fouge/leger-go/internal/provider"
	"github.com/fouge/leger-go/internal/signer"
)

const requestTimeout = 10 * time.Second

var errLength = errors.New("expected 32 bytes")

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// HealthHandler answers GET /api/health with the provider's connection
// state.
func HealthHandler(p *provider.Provider, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "ok",
			"version":   version,
			"connected": p.IsConnected(),
		})
	}
}

// ChainHandler answers GET /api/chain with system_name/system_version
// and the cached genesis hash.
func ChainHandler(p *provider.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		name, err := p.SystemName(ctx)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		version, err := p.SystemVersion(ctx)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}
		genesis, err := p.GetGenesisBlockHash(ctx)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"name":        name,
			"version":     version,
			"genesisHash": hexutil.Encode(genesis[:]),
		})
	}
}

// BlockHashHandler answers GET /api/block/{number}, falling back to the
// chain tip when number is omitted.
func BlockHashHandler(p *provider.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		var numberPtr *uint64
		if raw := chi.URLParam(r, "number"); raw != "" {
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, err)
				return
			}
			numberPtr = &n
		}

		hash, err := p.GetBlockHash(ctx, numberPtr)
		if err != nil {
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{
			"blockHash": hexutil.Encode(hash[:]),
		})
	}
}

// TransferRequest is the JSON body for POST /api/transfer.
type TransferRequest struct {
	// SeedHex is the 32-byte signing seed, hex-encoded (0x-prefixed or not).
	SeedHex string `json:"seedHex"`
	// DestHex is the 32-byte destination account id, hex-encoded.
	DestHex string `json:"destHex"`
	Amount  uint64 `json:"amount"`
}

// TransferHandler answers POST /api/transfer by building, signing and
// submitting a balance transfer extrinsic.
func TransferHandler(p *provider.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		seed, err := decode32(req.SeedHex)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		dest, err := decode32(req.DestHex)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		author := account.New(signer.NewEd25519Signer(seed))

		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()

		extHash, err := p.BalanceTransfer(ctx, author, dest, req.Amount)
		if err != nil {
			slog.Error("transfer failed", "error", err)
			writeError(w, http.StatusBadGateway, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"extrinsicHash": extHash})
	}
}

func decode32(hexStr string) ([32]byte, error) {
	var out [32]byte
	if !strings.HasPrefix(hexStr, "0x") && !strings.HasPrefix(hexStr, "0X") {
		hexStr = "0x" + hexStr
	}
	b, err := hexutil.Decode(hexStr)
	if err != nil {
		return out, err
	}
	if len(b) != 32 {
		return out, errLength
	}
	copy(out[:], b)
	return out, nil
}
