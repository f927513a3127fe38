// Command legerctl is a TCP-based CLI client, mirroring the reference
// implementation's examples/unix.rs: connect, print chain info, then
// optionally submit a balance transfer.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/fouge/leger-go/internal/account"
	"github.com/fouge/leger-go/internal/config"
	"github.com/fouge/leger-go/internal/logging"
	"github.com/fouge/leger-go/internal/provider"
	"github.com/fouge/leger-go/internal/rpc"
	"github.com/fouge/leger-go/internal/signer"
	"github.com/fouge/leger-go/internal/transport"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		if err := runInfo(); err != nil {
			slog.Error("info error", "error", err)
			os.Exit(1)
		}
	case "transfer":
		if err := runTransfer(); err != nil {
			slog.Error("transfer error", "error", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("legerctl %s\n", version)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: legerctl <command>

Commands:
  info      Connect and print chain + account info
  transfer  Sign and submit a balance transfer
  version   Print version information
`)
}

func newProvider(cfg *config.Config) (*provider.Provider, error) {
	dialer := transport.NewDialer(cfg.ReadTimeout)
	session := rpc.New(dialer)

	var opts []provider.Option
	if cfg.MultiAddressDiscriminant {
		opts = append(opts, provider.WithMultiAddressDiscriminant())
	}
	opts = append(opts, provider.WithReconnectPolicy(cfg.ReconnectRPS, cfg.ReconnectFailThresh, cfg.ReconnectCooldown))

	p := provider.New(session, cfg.NodeAddr, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ReadTimeout*5)
	defer cancel()
	if err := p.Open(ctx); err != nil {
		return nil, fmt.Errorf("open provider: %w", err)
	}
	return p, nil
}

func decodeSeed(hexSeed string) ([32]byte, error) {
	var seed [32]byte
	if !strings.HasPrefix(hexSeed, "0x") && !strings.HasPrefix(hexSeed, "0X") {
		hexSeed = "0x" + hexSeed
	}
	b, err := hexutil.Decode(hexSeed)
	if err != nil {
		return seed, fmt.Errorf("decode seed: %w", err)
	}
	if len(b) != 32 {
		return seed, fmt.Errorf("seed must be 32 bytes, got %d", len(b))
	}
	copy(seed[:], b)
	return seed, nil
}

func runInfo() error {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	// Defaults to the well-known dev "//Alice" seed.
	seedHex := fs.String("seed", "e5be9a5092b81bca64be81d212e7f2f9eba183bb7a90954f7b76361f6edb5c0a", "32-byte hex signing seed")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	p, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer p.Close(context.Background())

	seed, err := decodeSeed(*seedHex)
	if err != nil {
		return err
	}
	acct := account.New(signer.NewEd25519Signer(seed))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	name, err := p.SystemName(ctx)
	if err != nil {
		return fmt.Errorf("system_name: %w", err)
	}
	fmt.Printf("Name: %s\n", name)

	sysVersion, err := p.SystemVersion(ctx)
	if err != nil {
		return fmt.Errorf("system_version: %w", err)
	}
	fmt.Printf("Version: %s\n", sysVersion)

	genesis, err := p.GetGenesisBlockHash(ctx)
	if err != nil {
		return fmt.Errorf("genesis block hash: %w", err)
	}
	fmt.Printf("Genesis block hash: %s\n", hexutil.Encode(genesis[:]))

	head, err := p.GetBlockHash(ctx, nil)
	if err != nil {
		return fmt.Errorf("last block hash: %w", err)
	}
	fmt.Printf("Last block hash: %s\n", hexutil.Encode(head[:]))

	finalized, err := p.GetFinalizedHead(ctx)
	if err != nil {
		return fmt.Errorf("finalized head: %w", err)
	}
	fmt.Printf("Finalized head: %s\n", finalized)

	fmt.Printf("Account: %s\n", acct.SS58())

	info, err := acct.GetInfo(ctx, p)
	if err != nil {
		fmt.Printf("Account info error: %v\n", err)
	} else {
		fmt.Printf("Account info: %+v\n", info)
	}

	balance, err := acct.GetBalance(ctx, p)
	if err != nil {
		fmt.Printf("Balance error: %v\n", err)
	} else {
		fmt.Printf("Balance: %s\n", le16ToBigInt(balance).String())
	}

	return nil
}

func runTransfer() error {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	seedHex := fs.String("seed", "e5be9a5092b81bca64be81d212e7f2f9eba183bb7a90954f7b76361f6edb5c0a", "32-byte hex signing seed")
	// Defaults to the well-known dev "//Bob" account id.
	destHex := fs.String("dest", "8eaf04151687736326c9fea17e25fc5287613693c912909cb226aa4794f26a48", "32-byte hex destination account id")
	amount := fs.Uint64("amount", 2921503981796281, "amount to transfer, in the chain's smallest unit")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logCloser, err := logging.Setup(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer logCloser.Close()

	p, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer p.Close(context.Background())

	seed, err := decodeSeed(*seedHex)
	if err != nil {
		return err
	}
	destBytes, err := decodeSeed(*destHex)
	if err != nil {
		return fmt.Errorf("dest: %w", err)
	}

	acct := account.New(signer.NewEd25519Signer(seed))
	fmt.Printf("Sending %d units from %s\n", *amount, acct.SS58())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	extHash, err := p.BalanceTransfer(ctx, acct, destBytes, *amount)
	if err != nil {
		return fmt.Errorf("balance transfer: %w", err)
	}
	fmt.Printf("Submitted extrinsic hash: %s\n", extHash)
	return nil
}

func le16ToBigInt(le [16]byte) *big.Int {
	be := make([]byte, 16)
	for i := range le {
		be[15-i] = le[i]
	}
	return new(big.Int).SetBytes(be)
}
