package session

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	sessionerrors "github.com/blaze-nyan/brillar-lms/internal/session/errors"
)

type fakeRepo struct {
	withTxFn        func(tx *sql.Tx) Repository
	createFn        func(ctx context.Context, t *RefreshToken) error
	deleteFn        func(ctx context.Context, role string, principalID uuid.UUID, token string) (int64, error)
	deleteAllFn     func(ctx context.Context, role string, principalID uuid.UUID) error
	deleteExpiredFn func(ctx context.Context, now time.Time) (int64, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, t *RefreshToken) error {
	return f.createFn(ctx, t)
}
func (f *fakeRepo) Delete(ctx context.Context, role string, principalID uuid.UUID, token string) (int64, error) {
	return f.deleteFn(ctx, role, principalID, token)
}
func (f *fakeRepo) DeleteAll(ctx context.Context, role string, principalID uuid.UUID) error {
	return f.deleteAllFn(ctx, role, principalID)
}
func (f *fakeRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return f.deleteExpiredFn(ctx, now)
}

func TestService_IssueRecordsRefreshToken(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	principalID := uuid.New()

	var recorded *RefreshToken
	repo := &fakeRepo{
		createFn: func(ctx context.Context, rt *RefreshToken) error {
			recorded = rt
			return nil
		},
	}

	svc := NewService(db, NewManager(testConfig()), repo)
	pair, err := svc.Issue(context.Background(), principalID, "jane@example.com", RoleEmployee)
	assert.NoError(t, err)
	assert.NotNil(t, recorded)
	assert.Equal(t, principalID, recorded.PrincipalID)
	assert.Equal(t, RoleEmployee, recorded.Role)
	assert.Equal(t, pair.RefreshToken, recorded.Token)
	assert.WithinDuration(t, time.Now().Add(RefreshTokenTTL), recorded.ExpiresAt, time.Minute)
}

func TestService_RotateIsOneTimeUse(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	manager := NewManager(testConfig())
	principalID := uuid.New()
	ctx := context.Background()

	// The live set holds exactly the tokens issued so far.
	live := map[string]bool{}
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, rt *RefreshToken) error {
		live[rt.Token] = true
		return nil
	}
	repo.deleteFn = func(ctx context.Context, role string, pid uuid.UUID, token string) (int64, error) {
		if !live[token] {
			return 0, nil
		}
		delete(live, token)
		return 1, nil
	}

	svc := NewService(db, manager, repo)

	pair, err := svc.Issue(ctx, principalID, "jane@example.com", RoleEmployee)
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	rotated, claims, err := svc.Rotate(ctx, pair.RefreshToken, RoleEmployee)
	assert.NoError(t, err)
	assert.Equal(t, principalID.String(), claims.PrincipalID())
	assert.NotEmpty(t, rotated.RefreshToken)

	// The spent token is cryptographically valid but no longer live.
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, _, err = svc.Rotate(ctx, pair.RefreshToken, RoleEmployee)
	assert.ErrorIs(t, err, sessionerrors.ErrUnknownToken)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_RotateRejectsWrongRole(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	manager := NewManager(testConfig())
	repo := &fakeRepo{}
	svc := NewService(db, manager, repo)

	pair, err := manager.IssuePair(uuid.New().String(), "jane@example.com", RoleEmployee)
	assert.NoError(t, err)

	_, _, err = svc.Rotate(context.Background(), pair.RefreshToken, RoleAdmin)
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidRefreshToken)
}

func TestService_RotateMapsVerificationFailureToForbidden(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, NewManager(testConfig()), &fakeRepo{})

	// Garbage and expired tokens alike are a 403 at the refresh boundary,
	// never a 401.
	_, _, err := svc.Rotate(context.Background(), "not-a-jwt", RoleEmployee)
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidRefreshToken)
	assert.Equal(t, http.StatusForbidden, sessionerrors.ErrInvalidRefreshToken.HTTPStatus)
}

func TestService_RevokeSingleToken(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	principalID := uuid.New()
	var deletedToken string
	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, role string, pid uuid.UUID, token string) (int64, error) {
			deletedToken = token
			return 1, nil
		},
	}

	svc := NewService(db, NewManager(testConfig()), repo)
	err := svc.Revoke(context.Background(), principalID, RoleEmployee, "some-refresh-token")
	assert.NoError(t, err)
	assert.Equal(t, "some-refresh-token", deletedToken)
}

func TestService_RevokeMissingTokenIsNoOp(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		deleteFn: func(ctx context.Context, role string, pid uuid.UUID, token string) (int64, error) {
			return 0, nil
		},
	}

	svc := NewService(db, NewManager(testConfig()), repo)
	err := svc.Revoke(context.Background(), uuid.New(), RoleEmployee, "already-rotated-out")
	assert.NoError(t, err)
}

func TestService_RevokeAllDevices(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	principalID := uuid.New()
	var deleteAllCalled bool
	repo := &fakeRepo{
		deleteAllFn: func(ctx context.Context, role string, pid uuid.UUID) error {
			deleteAllCalled = true
			assert.Equal(t, principalID, pid)
			assert.Equal(t, RoleEmployee, role)
			return nil
		},
	}

	svc := NewService(db, NewManager(testConfig()), repo)
	err := svc.Revoke(context.Background(), principalID, RoleEmployee, "")
	assert.NoError(t, err)
	assert.True(t, deleteAllCalled)
}
