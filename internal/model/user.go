package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles. Superusers and admins are privileged: they may update and delete
// ledger entities and read reports and audit logs.
const (
	RoleSuperuser = "superuser"
	RoleAdmin     = "admin"
	RoleStaff     = "staff"
)

// User is an authenticated actor.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        *string
	FirstName    string
	LastName     string
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"type:varchar(20);not null;default:'staff'"`
	Active       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsPrivilegedRole reports whether role grants write access beyond create.
func IsPrivilegedRole(role string) bool {
	return role == RoleSuperuser || role == RoleAdmin
}

func (u *User) IsPrivileged() bool { return IsPrivilegedRole(u.Role) }
