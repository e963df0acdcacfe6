package session

import (
	"os"
	"time"

	sessionerrors "github.com/blaze-nyan/brillar-lms/internal/session/errors"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// Config carries the signing secrets. Access and refresh tokens never share a
// secret, and admin tokens may be signed with their own pair so an employee
// token can never be replayed against an admin route even before the role
// claim is checked.
type Config struct {
	AccessSecret       string
	RefreshSecret      string
	AdminAccessSecret  string
	AdminRefreshSecret string
}

// ConfigFromEnv reads the JWT secrets. Admin secrets fall back to the
// employee ones when unset.
func ConfigFromEnv() Config {
	cfg := Config{
		AccessSecret:       os.Getenv("JWT_ACCESS_SECRET"),
		RefreshSecret:      os.Getenv("JWT_REFRESH_SECRET"),
		AdminAccessSecret:  os.Getenv("JWT_ADMIN_ACCESS_SECRET"),
		AdminRefreshSecret: os.Getenv("JWT_ADMIN_REFRESH_SECRET"),
	}
	if cfg.AdminAccessSecret == "" {
		cfg.AdminAccessSecret = cfg.AccessSecret
	}
	if cfg.AdminRefreshSecret == "" {
		cfg.AdminRefreshSecret = cfg.RefreshSecret
	}
	return cfg
}

// Claims is the payload carried by both token classes. PrincipalID travels in
// the registered subject claim.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) PrincipalID() string {
	return c.Subject
}

// Pair is one issued access/refresh token pair.
type Pair struct {
	AccessToken      string
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// Manager issues and verifies token pairs. It is stateless: the live-token
// set lives in the Repository and is consulted by Service, not here.
type Manager struct {
	cfg Config
}

func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg}
}

func (m *Manager) accessSecret(role string) []byte {
	if role == RoleAdmin {
		return []byte(m.cfg.AdminAccessSecret)
	}
	return []byte(m.cfg.AccessSecret)
}

func (m *Manager) refreshSecret(role string) []byte {
	if role == RoleAdmin {
		return []byte(m.cfg.AdminRefreshSecret)
	}
	return []byte(m.cfg.RefreshSecret)
}

func (m *Manager) IssuePair(principalID, email, role string) (Pair, error) {
	now := time.Now().UTC()
	refreshExpiry := now.Add(RefreshTokenTTL)

	access, err := m.sign(principalID, email, role, now, now.Add(AccessTokenTTL), m.accessSecret(role))
	if err != nil {
		return Pair{}, err
	}
	refresh, err := m.sign(principalID, email, role, now, refreshExpiry, m.refreshSecret(role))
	if err != nil {
		return Pair{}, err
	}

	return Pair{
		AccessToken:      access,
		RefreshToken:     refresh,
		RefreshExpiresAt: refreshExpiry,
	}, nil
}

// VerifyAccess checks signature, expiry and the role claim. It never touches
// storage; middleware relies on that for a cheap per-request check.
func (m *Manager) VerifyAccess(tokenString, role string) (*Claims, error) {
	return m.verify(tokenString, role, m.accessSecret(role))
}

// VerifyRefresh checks signature, expiry and the role claim. Whether the token
// is still in the principal's live set is Service's job.
func (m *Manager) VerifyRefresh(tokenString, role string) (*Claims, error) {
	return m.verify(tokenString, role, m.refreshSecret(role))
}

func (m *Manager) sign(principalID, email, role string, issuedAt, expiresAt time.Time, secret []byte) (string, error) {
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principalID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *Manager) verify(tokenString, role string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, sessionerrors.ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return nil, sessionerrors.ErrInvalidToken
	}
	if claims.Role != role || claims.Subject == "" {
		return nil, sessionerrors.ErrInvalidToken
	}
	return claims, nil
}
