package model

import "time"

// Role is an account's authorization level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleClient Role = "client"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

// User represents an authenticated account in the system.
type User struct {
	ID             string    `json:"id" gorm:"type:char(36);primaryKey" firestore:"id"`
	Email          string    `json:"email" gorm:"uniqueIndex;size:255;not null" firestore:"email"`
	FullName       string    `json:"full_name" gorm:"size:255;not null" firestore:"full_name"`
	Role           Role      `json:"role" gorm:"size:20;not null;default:'client'" firestore:"role"`
	HashedPassword string    `json:"-" gorm:"size:255;not null" firestore:"hashed_password"` // Never expose in JSON
	IsActive       bool      `json:"is_active" gorm:"default:true" firestore:"is_active"`
	CreatedAt      time.Time `json:"created_at" firestore:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" firestore:"updated_at"`
}

// UserUpdate lists the fields a partial user update may change. Nil fields are left untouched.
type UserUpdate struct {
	FullName       *string
	Email          *string
	HashedPassword *string
	Role           *Role
}

// Apply merges the non-nil fields of upd into u and refreshes UpdatedAt.
func (upd UserUpdate) Apply(u *User, now time.Time) {
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.HashedPassword != nil {
		u.HashedPassword = *upd.HashedPassword
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	u.UpdatedAt = now
}

// Clone returns a copy of u.
func (u *User) Clone() *User {
	c := *u
	return &c
}
