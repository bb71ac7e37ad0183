// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keyring loads keyring dumps into the signature store. Two input
// formats are supported: GnuPG --with-colons listings and binary or armored
// OpenPGP keyrings. Both feed the same tables, so a graph built afterwards
// does not care which format the data came from.
package keyring

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/logging"
	"github.com/toeirei/sigpath/internal/model"
)

// Options controls ingestion behavior.
type Options struct {
	// UseWeakKeys keeps RSA/DSA keys below 2048 bits instead of skipping them.
	UseWeakKeys bool
}

// Stats summarizes one ingestion run.
type Stats struct {
	Keys        int // key records upserted
	UIDs        int // valid user IDs seen
	Signatures  int // signature assertions stored
	WeakSkipped int // keys dropped by the weak-key filter
}

// IngestionError reports a malformed dump. It aborts the run; rows written
// before the error stay in the store and are safe to re-ingest over.
type IngestionError struct {
	Line int
	Msg  string
}

func (e *IngestionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("keyring: malformed input at line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("keyring: malformed input: %s", e.Msg)
}

// Open opens a dump file for ingestion, transparently decompressing
// zstd-compressed dumps by file extension.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".zst") {
		return f, nil
	}
	zr, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("keyring: failed to open zstd stream: %w", err)
	}
	return &zstdReadCloser{zr: zr, f: f}, nil
}

type zstdReadCloser struct {
	zr *zstd.Decoder
	f  *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) { return z.zr.Read(p) }

func (z *zstdReadCloser) Close() error {
	z.zr.Close()
	return z.f.Close()
}

// parsedKey is one key with its pending signature assertions, held in memory
// until the whole dump is read. Signer key IDs can only be resolved to
// fingerprints once every key in the dump is known.
type parsedKey struct {
	rec   model.KeyRecord
	keyID string
	sigs  []pendingSig
}

type pendingSig struct {
	signerKeyID string
	signedAt    time.Time
}

// isWeak reports whether a key falls under the weak-key filter:
// RSA (algo 1) or DSA (algo 17) below 2048 bits.
func isWeak(algo string, bits int) bool {
	return (algo == "1" || algo == "17") && bits < 2048
}

// commit resolves signer key IDs against the full key set and writes keys
// and signatures to the store. Keys dropped by the weak-key filter drop
// their signatures in both directions, matching a signer that was never in
// the dump.
func commit(st db.Store, keys []parsedKey, opts Options) (Stats, error) {
	var stats Stats

	keep := make([]parsedKey, 0, len(keys))
	fprByKeyID := make(map[string]string, len(keys))
	for _, k := range keys {
		if !opts.UseWeakKeys && isWeak(k.rec.Algorithm, k.rec.BitLength) {
			logging.Infof("ignoring weak key: %s", k.rec.String())
			stats.WeakSkipped++
			continue
		}
		keep = append(keep, k)
		fprByKeyID[k.keyID] = k.rec.Fingerprint
	}

	for _, k := range keep {
		if err := st.UpsertKey(k.rec); err != nil {
			return stats, fmt.Errorf("keyring: failed to store key %s: %w", k.rec.Fingerprint, err)
		}
		stats.Keys++
	}

	for _, k := range keep {
		for _, ps := range k.sigs {
			signerFpr, ok := fprByKeyID[ps.signerKeyID]
			if !ok {
				// signer not in the dump (or filtered out), nothing to link
				continue
			}
			if signerFpr == k.rec.Fingerprint {
				continue
			}
			edge := model.SignatureEdge{
				SignerFingerprint: signerFpr,
				SigneeFingerprint: k.rec.Fingerprint,
				SignedAt:          ps.signedAt,
			}
			if err := st.AddSignature(edge); err != nil {
				return stats, fmt.Errorf("keyring: failed to store signature %s -> %s: %w",
					signerFpr, k.rec.Fingerprint, err)
			}
			stats.Signatures++
		}
	}

	logging.Infof("loaded %d keys and %d signatures (%d weak keys skipped)",
		stats.Keys, stats.Signatures, stats.WeakSkipped)
	return stats, nil
}
