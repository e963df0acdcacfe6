package session

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// RefreshToken is one live refresh token of a principal. A principal may hold
// several at once (one per device); logout and rotation remove rows.
type RefreshToken struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PrincipalID uuid.UUID `gorm:"type:uuid;not null;index:idx_refresh_tokens_principal"`
	Role        string    `gorm:"type:varchar(20);not null;index:idx_refresh_tokens_principal"`
	Token       string    `gorm:"type:text;not null;uniqueIndex:uq_refresh_tokens_token"`
	IssuedAt    time.Time `gorm:"not null"`
	ExpiresAt   time.Time `gorm:"not null;index:idx_refresh_tokens_expires_at"`
}
