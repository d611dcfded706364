package models

import (
	"strings"
	"time"
)

// Profile role values stored on UserProfile.
const (
	ProfileRoleUser  = "user"
	ProfileRoleAdmin = "admin"
)

// Role is the access level resolved once per request and carried through
// handler dispatch. Superusers bypass profile role checks entirely.
type Role string

const (
	RoleGuest     Role = "guest"
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// User is the identity record behind logins, reviews and blog authorship.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Username     string       `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	IsSuperuser  bool         `gorm:"not null;default:false" json:"is_superuser"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Profile      *UserProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// UserProfile carries the role assignment for regular identities. Superusers
// do not get one; their privilege comes from the IsSuperuser flag.
type UserProfile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Role      string    `gorm:"size:10;not null;default:'user'" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// ResolveRole collapses the superuser flag and the optional profile role into
// the closed role enum used for dispatch.
func ResolveRole(user *User) Role {
	if user == nil {
		return RoleGuest
	}
	if user.IsSuperuser {
		return RoleSuperuser
	}
	if user.Profile != nil && strings.EqualFold(user.Profile.Role, ProfileRoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// RoleFromString maps a claim value back onto the role enum. Unknown values
// degrade to guest rather than erroring.
func RoleFromString(value string) Role {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(RoleSuperuser):
		return RoleSuperuser
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleUser):
		return RoleUser
	default:
		return RoleGuest
	}
}
