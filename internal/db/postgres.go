// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for sigpath.
// This file contains the PostgreSQL implementation of the database store.
package db // import "github.com/toeirei/sigpath/internal/db"

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/toeirei/sigpath/internal/model"
	"github.com/uptrace/bun"
)

// PostgresStore is the PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	bun *bun.DB
}

// UpsertKey inserts or replaces a key record keyed by fingerprint.
func (s *PostgresStore) UpsertKey(key model.KeyRecord) error {
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

// AddSignature records one signature assertion, ignoring duplicates.
func (s *PostgresStore) AddSignature(sig model.SignatureEdge) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, s.bun,
		"INSERT INTO signatures (signer_fingerprint, signee_fingerprint, signed_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING",
		sig.SignerFingerprint, sig.SigneeFingerprint, sig.SignedAt)
	return err
}

func (s *PostgresStore) GetKeyByFingerprint(fingerprint string) (*model.KeyRecord, error) {
	return GetKeyByFingerprintBun(s.bun, fingerprint)
}

func (s *PostgresStore) GetAllKeys() ([]model.KeyRecord, error) {
	return GetAllKeysBun(s.bun)
}

func (s *PostgresStore) FindKeys(identifier string) ([]model.KeyRecord, error) {
	return FindKeysBun(s.bun, identifier)
}

func (s *PostgresStore) GetFullyTrustedKeys() ([]model.KeyRecord, error) {
	return GetFullyTrustedKeysBun(s.bun)
}

func (s *PostgresStore) GetUltimateKey() (*model.KeyRecord, error) {
	return GetUltimateKeyBun(s.bun)
}

func (s *PostgresStore) GetAllSignatures() ([]model.SignatureEdge, error) {
	return GetAllSignaturesBun(s.bun)
}

func (s *PostgresStore) CountKeys() (int, error) {
	return CountKeysBun(s.bun)
}

func (s *PostgresStore) CountSignatures() (int, error) {
	return CountSignaturesBun(s.bun)
}

func (s *PostgresStore) Reset() error {
	return ResetBun(s.bun)
}
