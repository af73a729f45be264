package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"roomrequests/internal/domain"
)

type verificationRepository struct {
	DB        *sql.DB
	originKey string
}

// NewVerificationRepository returns a domain.VerificationRepository
// implemented with Postgres. The record lives in a single row keyed by
// originKey; Save upserts the whole row.
func NewVerificationRepository(db *sql.DB, originKey string) domain.VerificationRepository {
	return &verificationRepository{DB: db, originKey: originKey}
}

func (r *verificationRepository) Load(ctx context.Context) (*domain.VerificationRecord, error) {
	query := `
		SELECT email, verified_at, pending_items
		FROM verification_records
		WHERE origin_key = $1
	`
	var (
		email      string
		verifiedAt sql.NullTime
		rawItems   []byte
	)
	err := r.DB.QueryRowContext(ctx, query, r.originKey).Scan(&email, &verifiedAt, &rawItems)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	rec := &domain.VerificationRecord{Email: email, PendingItems: []domain.PendingItem{}}
	if verifiedAt.Valid {
		t := verifiedAt.Time
		rec.VerifiedAt = &t
	}
	if len(rawItems) > 0 {
		if err := json.Unmarshal(rawItems, &rec.PendingItems); err != nil {
			// Corrupt data is treated as absent.
			return nil, nil
		}
	}
	return rec, nil
}

func (r *verificationRepository) Save(ctx context.Context, rec *domain.VerificationRecord) error {
	items := rec.PendingItems
	if items == nil {
		items = []domain.PendingItem{}
	}
	rawItems, err := json.Marshal(items)
	if err != nil {
		return err
	}
	var verifiedAt sql.NullTime
	if rec.VerifiedAt != nil {
		verifiedAt = sql.NullTime{Time: *rec.VerifiedAt, Valid: true}
	}
	query := `
		INSERT INTO verification_records (origin_key, email, verified_at, pending_items)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (origin_key) DO UPDATE
		SET email = EXCLUDED.email,
		    verified_at = EXCLUDED.verified_at,
		    pending_items = EXCLUDED.pending_items
	`
	_, err = r.DB.ExecContext(ctx, query, r.originKey, rec.Email, verifiedAt, rawItems)
	return err
}
