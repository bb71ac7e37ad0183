// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for sigpath.
// This file contains the SQLite implementation of the database store.
package db // import "github.com/toeirei/sigpath/internal/db"

import (
	"context"

	"github.com/toeirei/sigpath/internal/model"
	"github.com/uptrace/bun"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SqliteStore is the SQLite implementation of the Store interface.
type SqliteStore struct {
	bun *bun.DB
}

// UpsertKey inserts or replaces a key record keyed by fingerprint.
func (s *SqliteStore) UpsertKey(key model.KeyRecord) error {
	ctx := context.Background()
	km := keyRecordToModel(key)
	_, err := s.bun.NewInsert().Model(&km).
		On("CONFLICT (fingerprint) DO UPDATE").
		Set("primary_uid = EXCLUDED.primary_uid").
		Set("ownertrust = EXCLUDED.ownertrust").
		Set("algorithm = EXCLUDED.algorithm").
		Set("bit_length = EXCLUDED.bit_length").
		Set("created_at = EXCLUDED.created_at").
		Set("expires_at = EXCLUDED.expires_at").
		Exec(ctx)
	return MapDBError(err)
}

// AddSignature records one signature assertion. Duplicate assertions are
// ignored so re-running ingestion is idempotent.
func (s *SqliteStore) AddSignature(sig model.SignatureEdge) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, s.bun,
		"INSERT OR IGNORE INTO signatures (signer_fingerprint, signee_fingerprint, signed_at) VALUES (?, ?, ?)",
		sig.SignerFingerprint, sig.SigneeFingerprint, sig.SignedAt)
	return err
}

// GetKeyByFingerprint retrieves one key record, or nil when absent.
func (s *SqliteStore) GetKeyByFingerprint(fingerprint string) (*model.KeyRecord, error) {
	return GetKeyByFingerprintBun(s.bun, fingerprint)
}

// GetAllKeys retrieves all key records.
func (s *SqliteStore) GetAllKeys() ([]model.KeyRecord, error) {
	return GetAllKeysBun(s.bun)
}

// FindKeys resolves an identifier to matching key records.
func (s *SqliteStore) FindKeys(identifier string) ([]model.KeyRecord, error) {
	return FindKeysBun(s.bun, identifier)
}

// GetFullyTrustedKeys returns keys with full or ultimate ownertrust.
func (s *SqliteStore) GetFullyTrustedKeys() ([]model.KeyRecord, error) {
	return GetFullyTrustedKeysBun(s.bun)
}

// GetUltimateKey returns the first ultimately trusted key, or nil.
func (s *SqliteStore) GetUltimateKey() (*model.KeyRecord, error) {
	return GetUltimateKeyBun(s.bun)
}

// GetAllSignatures retrieves signatures in insertion order.
func (s *SqliteStore) GetAllSignatures() ([]model.SignatureEdge, error) {
	return GetAllSignaturesBun(s.bun)
}

// CountKeys returns the number of stored key records.
func (s *SqliteStore) CountKeys() (int, error) {
	return CountKeysBun(s.bun)
}

// CountSignatures returns the number of stored signature assertions.
func (s *SqliteStore) CountSignatures() (int, error) {
	return CountSignaturesBun(s.bun)
}

// Reset wipes all key and signature rows.
func (s *SqliteStore) Reset() error {
	return ResetBun(s.bun)
}
