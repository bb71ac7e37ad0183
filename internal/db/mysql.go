// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// package db provides the data access layer for sigpath.
// This file contains the MySQL implementation of the database store.
package db // import "github.com/toeirei/sigpath/internal/db"

import (
	"context"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/toeirei/sigpath/internal/model"
	"github.com/uptrace/bun"
)

// MySQLStore is the MySQL implementation of the Store interface.
// The driver DSN should include `?parseTime=true` so DATETIME columns
// scan into time.Time.
type MySQLStore struct {
	bun *bun.DB
}

// UpsertKey inserts or replaces a key record keyed by fingerprint.
func (s *MySQLStore) UpsertKey(key model.KeyRecord) error {
	ctx := context.Background()
	km := keyRecordToModel(key)
	_, err := ExecRaw(ctx, s.bun,
		`INSERT INTO `+"`keys`"+` (fingerprint, primary_uid, ownertrust, algorithm, bit_length, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE primary_uid = VALUES(primary_uid), ownertrust = VALUES(ownertrust),
		 algorithm = VALUES(algorithm), bit_length = VALUES(bit_length),
		 created_at = VALUES(created_at), expires_at = VALUES(expires_at)`,
		km.Fingerprint, km.PrimaryUID, km.Ownertrust, km.Algorithm, km.BitLength, km.CreatedAt, km.ExpiresAt)
	return MapDBError(err)
}

// AddSignature records one signature assertion, ignoring duplicates.
func (s *MySQLStore) AddSignature(sig model.SignatureEdge) error {
	ctx := context.Background()
	_, err := ExecRaw(ctx, s.bun,
		"INSERT IGNORE INTO signatures (signer_fingerprint, signee_fingerprint, signed_at) VALUES (?, ?, ?)",
		sig.SignerFingerprint, sig.SigneeFingerprint, sig.SignedAt)
	return err
}

func (s *MySQLStore) GetKeyByFingerprint(fingerprint string) (*model.KeyRecord, error) {
	return GetKeyByFingerprintBun(s.bun, fingerprint)
}

func (s *MySQLStore) GetAllKeys() ([]model.KeyRecord, error) {
	return GetAllKeysBun(s.bun)
}

func (s *MySQLStore) FindKeys(identifier string) ([]model.KeyRecord, error) {
	return FindKeysBun(s.bun, identifier)
}

func (s *MySQLStore) GetFullyTrustedKeys() ([]model.KeyRecord, error) {
	return GetFullyTrustedKeysBun(s.bun)
}

func (s *MySQLStore) GetUltimateKey() (*model.KeyRecord, error) {
	return GetUltimateKeyBun(s.bun)
}

func (s *MySQLStore) GetAllSignatures() ([]model.SignatureEdge, error) {
	return GetAllSignaturesBun(s.bun)
}

func (s *MySQLStore) CountKeys() (int, error) {
	return CountKeysBun(s.bun)
}

func (s *MySQLStore) CountSignatures() (int, error) {
	return CountSignaturesBun(s.bun)
}

func (s *MySQLStore) Reset() error {
	return ResetBun(s.bun)
}
