// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/sigpath/internal/model"
)

// Store defines the interface for all database operations in sigpath.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Key methods
	UpsertKey(key model.KeyRecord) error
	GetKeyByFingerprint(fingerprint string) (*model.KeyRecord, error)
	GetAllKeys() ([]model.KeyRecord, error)
	FindKeys(identifier string) ([]model.KeyRecord, error)
	GetFullyTrustedKeys() ([]model.KeyRecord, error)
	GetUltimateKey() (*model.KeyRecord, error)
	CountKeys() (int, error)

	// Signature methods
	AddSignature(sig model.SignatureEdge) error
	GetAllSignatures() ([]model.SignatureEdge, error)
	CountSignatures() (int, error)

	// Maintenance
	Reset() error
}
