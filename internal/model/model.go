// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model contains the core domain types shared across sigpath:
// key records, signature assertions, trust paths and ownertrust levels.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Ownertrust is the key owner's self-assigned trust level, as recorded in
// the keyring. Values outside the known set are preserved as
// TrustUnknown rather than rejected, since keyring dumps may carry
// ownertrust letters we do not recognize.
type Ownertrust int

const (
	TrustUnknown Ownertrust = iota
	TrustNone
	TrustMarginal
	TrustFull
	TrustUltimate
)

// ParseOwnertrust maps a GnuPG ownertrust letter to an Ownertrust value.
// Unrecognized input maps to TrustUnknown.
func ParseOwnertrust(s string) Ownertrust {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "n":
		return TrustNone
	case "m":
		return TrustMarginal
	case "f":
		return TrustFull
	case "u":
		return TrustUltimate
	default:
		return TrustUnknown
	}
}

// Letter returns the GnuPG ownertrust letter for the value.
func (t Ownertrust) Letter() string {
	switch t {
	case TrustNone:
		return "n"
	case TrustMarginal:
		return "m"
	case TrustFull:
		return "f"
	case TrustUltimate:
		return "u"
	default:
		return "-"
	}
}

// String returns a human-readable name for the trust level.
func (t Ownertrust) String() string {
	switch t {
	case TrustNone:
		return "none"
	case TrustMarginal:
		return "marginal"
	case TrustFull:
		return "full"
	case TrustUltimate:
		return "ultimate"
	default:
		return "unknown"
	}
}

// IsFull reports whether the key counts as fully trusted for the purposes
// of path targets (full or ultimate ownertrust).
func (t Ownertrust) IsFull() bool {
	return t == TrustFull || t == TrustUltimate
}

// KeyRecord is one public key in the trust database. The fingerprint is the
// sole identity; ingesting the same fingerprint twice overwrites the record.
type KeyRecord struct {
	Fingerprint string
	PrimaryUID  string
	Ownertrust  Ownertrust
	Algorithm   string
	BitLength   int
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// KeyID returns the 16-character key ID suffix of the fingerprint.
func (k KeyRecord) KeyID() string {
	if len(k.Fingerprint) <= 16 {
		return k.Fingerprint
	}
	return k.Fingerprint[len(k.Fingerprint)-16:]
}

// Label returns the preferred display label: the primary UID when present,
// otherwise the fingerprint.
func (k KeyRecord) Label() string {
	if k.PrimaryUID != "" {
		return k.PrimaryUID
	}
	return k.Fingerprint
}

// String returns "uid (keyid)" for logs and listings.
func (k KeyRecord) String() string {
	return fmt.Sprintf("%s (%s)", k.Label(), k.KeyID())
}

// SignatureEdge records the assertion "signer signed signee's key".
// Directed; multiple assertions per pair may exist across time. Self-loops
// (signer == signee) are invalid and are dropped before they reach a graph.
type SignatureEdge struct {
	SignerFingerprint string
	SigneeFingerprint string
	SignedAt          time.Time
}

// Path is an ordered fingerprint sequence from source to target where each
// consecutive pair is a signature edge. A path never repeats a fingerprint;
// its length in edges equals the BFS distance that produced it.
type Path []string

// Len returns the number of edges in the path.
func (p Path) Len() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Source returns the first fingerprint, or "" for an empty path.
func (p Path) Source() string {
	if len(p) == 0 {
		return ""
	}
	return p[0]
}

// Target returns the last fingerprint, or "" for an empty path.
func (p Path) Target() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// PathSet maps a target fingerprint to the shortest path discovered for it.
// Absent targets are unreachable. Built fresh per invocation, never stored.
type PathSet map[string]Path
