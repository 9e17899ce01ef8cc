package api

import "ngcrud-backend-go/internal/models"

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ThingListResponse is returned by the home destination.
type ThingListResponse struct {
	Title  string         `json:"title"`
	Things []models.Thing `json:"things"`
}

// ThingDetailResponse is returned by the view-one destination.
type ThingDetailResponse struct {
	Title            string       `json:"title"`
	Thing            models.Thing `json:"thing"`
	OwnerDisplayName string       `json:"ownerDisplayName"`
	IsOwner          bool         `json:"isOwner"`
}

// ThingFormResponse is returned after a create or edit form is saved.
type ThingFormResponse struct {
	Title string       `json:"title"`
	Thing models.Thing `json:"thing"`
}

// SessionResponse is returned after a sign-in has been linked to its profile.
type SessionResponse struct {
	Identity models.Identity    `json:"identity"`
	Profile  models.UserProfile `json:"profile"`
	Created  bool               `json:"created"`
}

// Titles builds page titles from the configured site name.
type Titles struct {
	SiteName string
}

func (t Titles) Home() string { return t.SiteName }

func (t Titles) Thing(name string) string { return t.SiteName + " - " + name }

func (t Titles) NewItem() string { return t.SiteName + " - New item" }

func (t Titles) EditItem() string { return t.SiteName + " - Edit item" }
