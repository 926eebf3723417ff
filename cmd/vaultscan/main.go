// main.go - Scanning daemon: mirrors the on-ledger commitment tree and
// watches announcements for positions owned by the configured keys.
//
// Usage:
//   vaultscan -config vaultscan.json        # scan every interval
//   vaultscan -config vaultscan.json -once  # single pass, then exit

package main

import (
	"context"
	"encoding/hex"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cheng-chun-yuan/zVault-sub005/internal/field"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/ledger"
	"github.com/cheng-chun-yuan/zVault-sub005/internal/stealth"
)

func main() {
	configPath := flag.String("config", "vaultscan.json", "path to config file")
	once := flag.Bool("once", false, "run a single scan pass and exit")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	programID, err := ledger.ParseAddress(cfg.ProgramID)
	if err != nil {
		log.Fatal().Err(err).Msg("parse program id")
	}
	treeAddress, err := ledger.ParseAddress(cfg.TreeAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("parse tree address")
	}

	viewing, err := loadViewingKey(cfg.ViewingKeyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load viewing key")
	}
	spending, err := loadSpendingKey(cfg.SpendingKeyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load spending key")
	}

	hasher := field.NewHasher()
	if err := hasher.Initialize(); err != nil {
		log.Fatal().Err(err).Msg("initialize hasher")
	}

	client := ledger.NewRPCClient(cfg.RPCEndpoint)
	sync := ledger.NewTreeSync(client, programID, treeAddress, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	scan := func() {
		if err := runScan(ctx, hasher, sync, viewing, spending, log); err != nil {
			log.Error().Err(err).Msg("scan pass failed")
		}
	}

	scan()
	if *once {
		return
	}

	ticker := time.NewTicker(time.Duration(cfg.ScanIntervalSeconds) * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("shutting down")
			return
		case <-ticker.C:
			scan()
		}
	}
}

func runScan(ctx context.Context, h *field.Hasher, sync *ledger.TreeSync, viewing *stealth.ViewingKey, spending *stealth.SpendingKey, log zerolog.Logger) error {
	t, err := sync.RebuildTree(ctx, h)
	if err != nil {
		return err
	}
	anns, err := sync.FetchAnnouncements(ctx)
	if err != nil {
		return err
	}

	positions, err := stealth.Scan(h, viewing.Priv, &spending.Pub, anns)
	if err != nil {
		return err
	}
	for _, pos := range positions {
		log.Info().
			Uint64("leaf_index", pos.LeafIndex).
			Uint64("amount_sats", pos.AmountSats).
			Str("commitment", pos.Commitment.Hex()).
			Msg("owned position")
	}
	log.Info().
		Int("announcements", len(anns)).
		Int("owned", len(positions)).
		Uint64("leaves", t.NextIndex()).
		Msg("scan pass complete")
	return nil
}

// loadKeyBytes reads a 32-byte hex-encoded key file.
func loadKeyBytes(path string) ([32]byte, error) {
	var out [32]byte
	raw, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	decoded, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return out, err
	}
	if len(decoded) != len(out) {
		return out, os.ErrInvalid
	}
	copy(out[:], decoded)
	return out, nil
}

func loadViewingKey(path string) (*stealth.ViewingKey, error) {
	b, err := loadKeyBytes(path)
	if err != nil {
		return nil, err
	}
	return stealth.ViewingKeyFromBytes(b)
}

func loadSpendingKey(path string) (*stealth.SpendingKey, error) {
	b, err := loadKeyBytes(path)
	if err != nil {
		return nil, err
	}
	return stealth.SpendingKeyFromBytes(b)
}
