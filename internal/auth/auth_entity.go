package auth

import (
	"time"

	"github.com/google/uuid"
)

// Admin is the back-office principal. Rows are provisioned at startup from
// the environment, never through a public endpoint.
type Admin struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_admins_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Name         string    `gorm:"type:varchar(100);not null"`
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
