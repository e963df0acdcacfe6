package session

import (
	"context"
	"database/sql"
	"time"

	sessionerrors "github.com/blaze-nyan/brillar-lms/internal/session/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service binds the stateless token Manager to the persisted live-token set.
type Service interface {
	// Issue signs a new pair and records the refresh token as live.
	Issue(ctx context.Context, principalID uuid.UUID, email, role string) (Pair, error)
	// Rotate exchanges a live refresh token for a new pair. Verification
	// failures surface as ErrInvalidRefreshToken (403). The old token is
	// removed first, inside the same transaction that records the new one, so
	// a refresh token can be spent exactly once; a second use fails with
	// ErrUnknownToken (replay detection).
	Rotate(ctx context.Context, refreshToken, role string) (Pair, *Claims, error)
	// Revoke removes one live token (single-device logout) or, with an empty
	// token, every live token of the principal (logout-all).
	Revoke(ctx context.Context, principalID uuid.UUID, role, token string) error
	VerifyAccess(tokenString, role string) (*Claims, error)
}

type service struct {
	db      *sql.DB
	manager *Manager
	repo    Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, manager *Manager, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("session.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("session.service")
	}
	return &service{db: db, manager: manager, repo: repo, logger: l}
}

func (s *service) Issue(ctx context.Context, principalID uuid.UUID, email, role string) (Pair, error) {
	pair, err := s.manager.IssuePair(principalID.String(), email, role)
	if err != nil {
		s.logger.Error("issue pair failed", zap.String("role", role), zap.Error(err))
		return Pair{}, err
	}

	record := &RefreshToken{
		ID:          uuid.New(),
		PrincipalID: principalID,
		Role:        role,
		Token:       pair.RefreshToken,
		IssuedAt:    time.Now().UTC(),
		ExpiresAt:   pair.RefreshExpiresAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("record refresh token failed", zap.String("role", role), zap.Error(err))
		return Pair{}, err
	}

	return pair, nil
}

func (s *service) Rotate(ctx context.Context, refreshToken, role string) (Pair, *Claims, error) {
	claims, err := s.manager.VerifyRefresh(refreshToken, role)
	if err != nil {
		return Pair{}, nil, sessionerrors.ErrInvalidRefreshToken
	}

	principalID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Pair{}, nil, sessionerrors.ErrInvalidRefreshToken
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("rotate begin tx failed", zap.Error(err))
		return Pair{}, nil, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	removed, err := qtx.Delete(ctx, role, principalID, refreshToken)
	if err != nil {
		s.logger.Error("rotate delete old token failed", zap.Error(err))
		return Pair{}, nil, err
	}
	if removed == 0 {
		s.logger.Warn("refresh token replay detected",
			zap.String("principal_id", principalID.String()),
			zap.String("role", role),
		)
		return Pair{}, nil, sessionerrors.ErrUnknownToken
	}

	pair, err := s.manager.IssuePair(claims.Subject, claims.Email, role)
	if err != nil {
		return Pair{}, nil, err
	}

	record := &RefreshToken{
		ID:          uuid.New(),
		PrincipalID: principalID,
		Role:        role,
		Token:       pair.RefreshToken,
		IssuedAt:    time.Now().UTC(),
		ExpiresAt:   pair.RefreshExpiresAt,
	}
	if err := qtx.Create(ctx, record); err != nil {
		s.logger.Error("rotate record new token failed", zap.Error(err))
		return Pair{}, nil, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("rotate commit failed", zap.Error(err))
		return Pair{}, nil, err
	}

	s.logger.Info("refresh token rotated",
		zap.String("principal_id", principalID.String()),
		zap.String("role", role),
	)
	return pair, claims, nil
}

func (s *service) Revoke(ctx context.Context, principalID uuid.UUID, role, token string) error {
	if token == "" {
		if err := s.repo.DeleteAll(ctx, role, principalID); err != nil {
			return err
		}
		s.logger.Info("all sessions revoked",
			zap.String("principal_id", principalID.String()),
			zap.String("role", role),
		)
		return nil
	}

	// Revoking an already-gone token is a no-op, not an error: logout must
	// succeed even when the token was rotated out meanwhile.
	if _, err := s.repo.Delete(ctx, role, principalID, token); err != nil {
		return err
	}
	s.logger.Info("session revoked",
		zap.String("principal_id", principalID.String()),
		zap.String("role", role),
	)
	return nil
}

func (s *service) VerifyAccess(tokenString, role string) (*Claims, error) {
	return s.manager.VerifyAccess(tokenString, role)
}
