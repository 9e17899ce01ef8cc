package models

import "time"

// Default values written on a profile's first creation.
const (
	DefaultUserRole   = "user"
	DefaultUserStatus = "ON"
)

// UserProfile mirrors an authenticated identity in the Users collection.
// The Firebase Auth UID is both a field and the document ID.
type UserProfile struct {
	UID         string     `json:"uid"`
	DisplayName string     `json:"displayName"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photoURL"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// PublicProfile is the subset of a profile that other signed-in users may see.
type PublicProfile struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL"`
}

// Public strips the private fields of the profile.
func (p *UserProfile) Public() PublicProfile {
	return PublicProfile{UID: p.UID, DisplayName: p.DisplayName, PhotoURL: p.PhotoURL}
}
