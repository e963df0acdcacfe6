package session

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, t *RefreshToken) error
	// Delete removes one live token of a principal and reports how many rows
	// went away. Zero rows means the token was already rotated out or revoked.
	Delete(ctx context.Context, role string, principalID uuid.UUID, token string) (int64, error)
	DeleteAll(ctx context.Context, role string, principalID uuid.UUID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, t *RefreshToken) error {
	if r.tx != nil {
		_, err := r.tx.ExecContext(ctx, `
			INSERT INTO refresh_tokens (id, principal_id, role, token, issued_at, expires_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, t.ID, t.PrincipalID, t.Role, t.Token, t.IssuedAt, t.ExpiresAt)
		return err
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *repository) Delete(ctx context.Context, role string, principalID uuid.UUID, token string) (int64, error) {
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			DELETE FROM refresh_tokens
			WHERE role = $1 AND principal_id = $2 AND token = $3
		`, role, principalID, token)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	res := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("principal_id = ?", principalID).
		Where("token = ?", token).
		Delete(&RefreshToken{})
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteAll(ctx context.Context, role string, principalID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("principal_id = ?", principalID).
		Delete(&RefreshToken{}).Error
}

// DeleteExpired sweeps tokens past their expiry. Postgres has no TTL index,
// so the worker calls this periodically instead.
func (r *repository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&RefreshToken{})
	return res.RowsAffected, res.Error
}
