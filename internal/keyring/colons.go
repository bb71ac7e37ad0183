// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package keyring

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/model"
)

// Field positions in GnuPG --with-colons records. See gnupg's doc/DETAILS.
const (
	fieldValidity   = 1
	fieldBits       = 2
	fieldAlgo       = 3
	fieldKeyID      = 4
	fieldCreated    = 5
	fieldExpires    = 6
	fieldOwnertrust = 8
	fieldUID        = 9
	fieldSigClass   = 10
)

// IngestColons parses a GnuPG `--list-sigs --with-colons` listing and loads
// keys and certification signatures into the store.
//
// Filtering follows the usual web-of-trust rules: expired, revoked or
// otherwise invalid pubs and uids are skipped along with everything hanging
// off them; only certification signatures (classes 0x10 through 0x13) count;
// a 0x30 revocation ejects the pending signature from the same signer and
// suppresses any later re-appearance on that uid; self-signatures never
// become edges. Signers that are not themselves in the dump are dropped,
// since an edge needs key records on both ends.
func IngestColons(r io.Reader, st db.Store, opts Options) (Stats, error) {
	var (
		keys     []parsedKey
		cur      *parsedKey // key currently being read, nil when skipped
		uidOK    bool       // inside a valid uid block
		sawUID   bool       // current key already has a primary uid
		uidSigs  map[string]pendingSig
		uidOrder []string // signer first-seen order; map iteration would randomize rows
		revsigs  map[string]bool
		uids     int
	)

	flushUID := func() {
		if cur == nil {
			return
		}
		for _, signer := range uidOrder {
			if ps, ok := uidSigs[signer]; ok {
				cur.sigs = append(cur.sigs, ps)
			}
		}
		uidSigs = nil
		uidOrder = nil
		revsigs = nil
	}
	flushKey := func() {
		flushUID()
		if cur != nil {
			if cur.rec.Fingerprint == "" {
				// old listings without fpr records; the key ID is all we have
				cur.rec.Fingerprint = cur.keyID
			}
			keys = append(keys, *cur)
			cur = nil
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		rec, fields := splitColonRecord(line)

		switch rec {
		case "pub":
			flushKey()
			uidOK = false
			sawUID = false
			if len(fields) <= fieldOwnertrust {
				return Stats{}, &IngestionError{Line: lineno, Msg: "pub record has too few fields"}
			}
			if isInvalidValidity(fields[fieldValidity]) {
				continue
			}
			bits, _ := strconv.Atoi(fields[fieldBits])
			cur = &parsedKey{
				keyID: strings.ToUpper(fields[fieldKeyID]),
				rec: model.KeyRecord{
					Ownertrust: model.ParseOwnertrust(fields[fieldOwnertrust]),
					Algorithm:  fields[fieldAlgo],
					BitLength:  bits,
					CreatedAt:  parseColonTime(fields[fieldCreated]),
					ExpiresAt:  parseColonTime(fields[fieldExpires]),
				},
			}

		case "fpr":
			// fpr records directly after pub carry the full fingerprint;
			// later ones belong to subkeys and are ignored.
			if cur == nil || cur.rec.Fingerprint != "" {
				continue
			}
			if len(fields) <= fieldUID {
				return Stats{}, &IngestionError{Line: lineno, Msg: "fpr record has too few fields"}
			}
			cur.rec.Fingerprint = strings.ToUpper(fields[fieldUID])

		case "uid":
			flushUID()
			uidOK = false
			if cur == nil {
				continue
			}
			if len(fields) <= fieldUID {
				return Stats{}, &IngestionError{Line: lineno, Msg: "uid record has too few fields"}
			}
			if isInvalidValidity(fields[fieldValidity]) {
				continue
			}
			uidOK = true
			uids++
			uidSigs = make(map[string]pendingSig)
			uidOrder = nil
			revsigs = make(map[string]bool)
			if !sawUID {
				cur.rec.PrimaryUID = fields[fieldUID]
				sawUID = true
			}

		case "sig", "rev":
			if cur == nil || !uidOK {
				continue
			}
			if len(fields) <= fieldSigClass || len(fields[fieldSigClass]) < 2 {
				continue
			}
			signer := strings.ToUpper(fields[fieldKeyID])
			if signer == cur.keyID {
				continue
			}
			class, err := strconv.ParseInt(fields[fieldSigClass][:2], 16, 32)
			if err != nil {
				continue
			}
			if class == 0x30 {
				delete(uidSigs, signer)
				revsigs[signer] = true
				continue
			}
			if class < 0x10 || class > 0x13 {
				continue
			}
			if revsigs[signer] {
				continue
			}
			if _, ok := uidSigs[signer]; !ok {
				uidOrder = append(uidOrder, signer)
			}
			uidSigs[signer] = pendingSig{
				signerKeyID: signer,
				signedAt:    parseColonTime(fields[fieldCreated]),
			}

		default:
			// subkeys, trust db header, attributes: nothing for the graph
		}
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, &IngestionError{Line: lineno, Msg: err.Error()}
	}
	flushKey()

	stats, err := commit(st, keys, opts)
	stats.UIDs = uids
	return stats, err
}

func splitColonRecord(line string) (string, []string) {
	fields := strings.Split(line, ":")
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields
}

// isInvalidValidity reports whether a validity letter marks the record as
// expired, revoked or invalid.
func isInvalidValidity(v string) bool {
	return v == "e" || v == "r" || v == "i"
}

// parseColonTime handles the timestamp formats GnuPG emits in colon
// listings: epoch seconds, ISO-8601 basic, or a plain date. Empty and
// unparsable values become the zero time.
func parseColonTime(s string) time.Time {
	if s == "" || s == "0" {
		return time.Time{}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC()
	}
	if t, err := time.Parse("20060102T150405", s); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
