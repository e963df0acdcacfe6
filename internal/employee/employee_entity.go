package employee

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeEmail is applied to every email before storage or lookup, so
// uniqueness and login are case-insensitive: Aye@Example.com and
// aye@example.com are the same mailbox.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Supervisors is the fixed set an employee may report to.
var Supervisors = []string{
	"Ko Kaung San Phoe",
	"Ko Kyaw Swa Win",
	"Dimple",
	"Budiman",
}

func IsValidSupervisor(s string) bool {
	for _, v := range Supervisors {
		if v == s {
			return true
		}
	}
	return false
}

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex:uq_employees_email"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	// Stored as a jsonb array; global uniqueness is enforced in the service
	// through a containment lookup, not a DB constraint.
	PhoneNumbers []string `gorm:"type:jsonb;serializer:json"`
	Supervisor   string   `gorm:"type:varchar(100);not null;index:idx_employees_supervisor"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
