package models

// Identity is the authenticated user as reported by the identity provider.
// A nil *Identity means signed out.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	PhotoURL    string `json:"photoURL"`
}
