package model

import "time"

// Invitation grants the holder of Token the right to create one account with Role.
type Invitation struct {
	ID        string     `json:"id" gorm:"type:char(26);primaryKey" firestore:"id"`
	Email     string     `json:"email" gorm:"size:255;not null;index" firestore:"email"`
	Role      Role       `json:"role" gorm:"size:20;not null" firestore:"role"`
	Token     string     `json:"token" gorm:"size:64;not null;uniqueIndex" firestore:"token"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" firestore:"expires_at"`
	IsUsed    bool       `json:"is_used" gorm:"not null;default:false" firestore:"is_used"`
	CreatedAt time.Time  `json:"created_at" firestore:"created_at"`
}

// Expired reports whether the invitation has an expiry at or before now.
func (i *Invitation) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// Clone returns a copy of i that shares no pointers with it.
func (i *Invitation) Clone() *Invitation {
	c := *i
	if i.ExpiresAt != nil {
		exp := *i.ExpiresAt
		c.ExpiresAt = &exp
	}
	return &c
}
