// Copyright (c) 2026 ToeiRei
// Sigpath - PGP web of trust pathfinder
// This source code is licensed under the MIT license found in the LICENSE file.

package keyring

import (
	"io"
	"strconv"
	"strings"

	openpgp "github.com/hockeypuck/openpgp"
	"github.com/toeirei/sigpath/internal/db"
	"github.com/toeirei/sigpath/internal/model"
)

// IngestKeyring parses a binary or armored OpenPGP keyring and loads keys
// and certification signatures into the store. Binary keyrings carry no
// ownertrust, so every key lands with unknown ownertrust; run a colon
// listing ingest afterwards if trust levels matter for path targets.
func IngestKeyring(r io.Reader, st db.Store, opts Options) (Stats, error) {
	var (
		keys []parsedKey
		uids int
	)

	for result := range openpgp.ReadKeys(r) {
		if result.Error != nil {
			return Stats{}, &IngestionError{Msg: result.Error.Error()}
		}
		key := result.PrimaryKey
		if key == nil {
			continue
		}
		pk := parsedKey{
			keyID: strings.ToUpper(key.KeyID()),
			rec: model.KeyRecord{
				Fingerprint: strings.ToUpper(key.Fingerprint()),
				Ownertrust:  model.TrustUnknown,
				Algorithm:   strconv.Itoa(key.Algorithm),
				BitLength:   key.BitLen,
				CreatedAt:   key.Creation,
				ExpiresAt:   key.Expiration,
			},
		}

		for _, uid := range key.UserIDs {
			uids++
			if pk.rec.PrimaryUID == "" {
				pk.rec.PrimaryUID = uid.Keywords
			}
			// last certification per signer wins per uid, revocations eject;
			// signer order stays packet order so stored rows are reproducible
			uidSigs := make(map[string]pendingSig)
			var uidOrder []string
			revsigs := make(map[string]bool)
			for _, sig := range uid.Signatures {
				signer := strings.ToUpper(sig.IssuerKeyID())
				if signer == "" || signer == pk.keyID {
					continue
				}
				switch sig.SigType {
				case 0x30:
					delete(uidSigs, signer)
					revsigs[signer] = true
				case 0x10, 0x11, 0x12, 0x13:
					if revsigs[signer] {
						continue
					}
					if _, ok := uidSigs[signer]; !ok {
						uidOrder = append(uidOrder, signer)
					}
					uidSigs[signer] = pendingSig{
						signerKeyID: signer,
						signedAt:    sig.Creation,
					}
				}
			}
			for _, signer := range uidOrder {
				if ps, ok := uidSigs[signer]; ok {
					pk.sigs = append(pk.sigs, ps)
				}
			}
		}
		keys = append(keys, pk)
	}

	stats, err := commit(st, keys, opts)
	stats.UIDs = uids
	return stats, err
}
