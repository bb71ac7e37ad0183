package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/toeirei/sigpath/internal/model"
	"github.com/uptrace/bun"
)

// KeyModel maps the `keys` table for Bun queries.
type KeyModel struct {
	bun.BaseModel `bun:"table:keys"`
	Fingerprint   string       `bun:"fingerprint,pk"`
	PrimaryUID    string       `bun:"primary_uid"`
	Ownertrust    string       `bun:"ownertrust"`
	Algorithm     string       `bun:"algorithm"`
	BitLength     int          `bun:"bit_length"`
	CreatedAt     sql.NullTime `bun:"created_at"`
	ExpiresAt     sql.NullTime `bun:"expires_at"`
}

// SignatureModel maps the `signatures` table for Bun queries.
type SignatureModel struct {
	bun.BaseModel     `bun:"table:signatures"`
	ID                int64        `bun:"id,pk,autoincrement"`
	SignerFingerprint string       `bun:"signer_fingerprint"`
	SigneeFingerprint string       `bun:"signee_fingerprint"`
	SignedAt          sql.NullTime `bun:"signed_at"`
}

// --- Mapping helpers (centralized conversions) ---

func keyModelToModel(k KeyModel) model.KeyRecord {
	rec := model.KeyRecord{
		Fingerprint: k.Fingerprint,
		PrimaryUID:  k.PrimaryUID,
		Ownertrust:  model.ParseOwnertrust(k.Ownertrust),
		Algorithm:   k.Algorithm,
		BitLength:   k.BitLength,
	}
	if k.CreatedAt.Valid {
		rec.CreatedAt = k.CreatedAt.Time
	}
	if k.ExpiresAt.Valid {
		rec.ExpiresAt = k.ExpiresAt.Time
	}
	return rec
}

func keyRecordToModel(rec model.KeyRecord) KeyModel {
	k := KeyModel{
		Fingerprint: rec.Fingerprint,
		PrimaryUID:  rec.PrimaryUID,
		Ownertrust:  rec.Ownertrust.Letter(),
		Algorithm:   rec.Algorithm,
		BitLength:   rec.BitLength,
	}
	if !rec.CreatedAt.IsZero() {
		k.CreatedAt = sql.NullTime{Time: rec.CreatedAt, Valid: true}
	}
	if !rec.ExpiresAt.IsZero() {
		k.ExpiresAt = sql.NullTime{Time: rec.ExpiresAt, Valid: true}
	}
	return k
}

func signatureModelToModel(s SignatureModel) model.SignatureEdge {
	edge := model.SignatureEdge{
		SignerFingerprint: s.SignerFingerprint,
		SigneeFingerprint: s.SigneeFingerprint,
	}
	if s.SignedAt.Valid {
		edge.SignedAt = s.SignedAt.Time
	}
	return edge
}

// GetKeyByFingerprintBun retrieves one key record, or nil when absent.
func GetKeyByFingerprintBun(bdb *bun.DB, fingerprint string) (*model.KeyRecord, error) {
	ctx := context.Background()
	var km KeyModel
	err := bdb.NewSelect().Model(&km).Where("fingerprint = ?", fingerprint).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec := keyModelToModel(km)
	return &rec, nil
}

// GetAllKeysBun returns all key records ordered by fingerprint.
func GetAllKeysBun(bdb *bun.DB) ([]model.KeyRecord, error) {
	ctx := context.Background()
	var kms []KeyModel
	if err := bdb.NewSelect().Model(&kms).OrderExpr("fingerprint").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.KeyRecord, 0, len(kms))
	for _, k := range kms {
		out = append(out, keyModelToModel(k))
	}
	return out, nil
}

// FindKeysBun resolves an identifier to key records. A full fingerprint or
// key ID suffix matches the fingerprint column case-insensitively; anything
// else is treated as a UID substring. Ordering is fixed so ambiguous
// candidate lists are stable across runs.
func FindKeysBun(bdb *bun.DB, identifier string) ([]model.KeyRecord, error) {
	ctx := context.Background()
	ident := strings.TrimSpace(identifier)
	if ident == "" {
		return nil, nil
	}
	var kms []KeyModel
	upper := strings.ToUpper(ident)
	like := "%" + strings.ToLower(ident) + "%"
	err := bdb.NewSelect().Model(&kms).
		Where("(UPPER(fingerprint) = ? OR UPPER(fingerprint) LIKE ? OR LOWER(primary_uid) LIKE ?)",
			upper, "%"+upper, like).
		OrderExpr("fingerprint").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.KeyRecord, 0, len(kms))
	for _, k := range kms {
		out = append(out, keyModelToModel(k))
	}
	return out, nil
}

// GetFullyTrustedKeysBun returns keys with full or ultimate ownertrust.
func GetFullyTrustedKeysBun(bdb *bun.DB) ([]model.KeyRecord, error) {
	ctx := context.Background()
	var kms []KeyModel
	err := bdb.NewSelect().Model(&kms).
		Where("ownertrust IN (?, ?)", model.TrustFull.Letter(), model.TrustUltimate.Letter()).
		OrderExpr("fingerprint").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.KeyRecord, 0, len(kms))
	for _, k := range kms {
		out = append(out, keyModelToModel(k))
	}
	return out, nil
}

// GetUltimateKeyBun returns the first ultimately trusted key, or nil.
func GetUltimateKeyBun(bdb *bun.DB) (*model.KeyRecord, error) {
	ctx := context.Background()
	var km KeyModel
	err := bdb.NewSelect().Model(&km).
		Where("ownertrust = ?", model.TrustUltimate.Letter()).
		OrderExpr("fingerprint").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec := keyModelToModel(km)
	return &rec, nil
}

// GetAllSignaturesBun returns signatures in insertion order. Insertion order
// is what makes shortest-path tie-breaks reproducible, so the ORDER BY id
// here is load-bearing.
func GetAllSignaturesBun(bdb *bun.DB) ([]model.SignatureEdge, error) {
	ctx := context.Background()
	var sms []SignatureModel
	if err := bdb.NewSelect().Model(&sms).OrderExpr("id").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.SignatureEdge, 0, len(sms))
	for _, s := range sms {
		out = append(out, signatureModelToModel(s))
	}
	return out, nil
}

// CountKeysBun returns the number of stored key records.
func CountKeysBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	var count int
	// `keys` is a reserved word on MySQL, so the table name goes through
	// dialect-aware identifier quoting.
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(fingerprint) FROM ?", bun.Ident("keys")); err != nil {
		return 0, err
	}
	return count, nil
}

// CountSignaturesBun returns the number of stored signature assertions.
func CountSignaturesBun(bdb *bun.DB) (int, error) {
	ctx := context.Background()
	var count int
	if err := QueryRawInto(ctx, bdb, &count, "SELECT COUNT(id) FROM signatures"); err != nil {
		return 0, err
	}
	return count, nil
}

// ResetBun wipes the signature and key tables inside one transaction.
func ResetBun(bdb *bun.DB) error {
	ctx := context.Background()
	return WithTx(ctx, bdb, func(ctx context.Context, tx bun.Tx) error {
		for _, t := range []string{"signatures", "keys"} {
			if _, err := ExecRaw(ctx, tx, "DELETE FROM ?", bun.Ident(t)); err != nil {
				return err
			}
		}
		return nil
	})
}
