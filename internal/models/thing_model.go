package models

import (
	"errors"
	"time"
)

// ThingStatus is the lifecycle flag of a Thing.
type ThingStatus string

const (
	// ThingStatusOn marks a Thing as visible.
	ThingStatusOn ThingStatus = "ON"
	// ThingStatusOff marks a Thing as soft-deleted.
	ThingStatusOff ThingStatus = "OFF"
)

// ErrInvalidStatus is returned when a status outside ON/OFF is requested.
var ErrInvalidStatus = errors.New("invalid thing status")

// Valid reports whether s is one of the known statuses.
func (s ThingStatus) Valid() bool {
	return s == ThingStatusOn || s == ThingStatusOff
}

// Thing represents a user-owned item stored in the Things collection.
type Thing struct {
	ID          string      `json:"id"` // Document ID, assigned by the store
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Location    *string     `json:"location"`
	PhotoURL    *string     `json:"photoURL"`
	CreatedAt   *time.Time  `json:"createdAt"`
	Owner       string      `json:"owner"` // Firebase Auth UID of the creator
	Status      ThingStatus `json:"status"`
	Metadata    interface{} `json:"metadata"` // Opaque, passed through unmodified
}

// Visible reports whether the thing may be listed and viewed.
func (t *Thing) Visible() bool {
	return t != nil && t.Status == ThingStatusOn
}

// OwnedBy reports whether uid created the thing.
func (t *Thing) OwnedBy(uid string) bool {
	return t != nil && uid != "" && t.Owner == uid
}

// ThingDetail is a visible thing as shown on its detail page.
type ThingDetail struct {
	Thing            Thing  `json:"thing"`
	OwnerDisplayName string `json:"ownerDisplayName"`
	IsOwner          bool   `json:"isOwner"`
}
