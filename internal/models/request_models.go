package models

// ThingInput is the create/edit form payload. Only these four fields are editable by owners.
type ThingInput struct {
	Name        string `json:"name" yaml:"name" binding:"required,min=3"`
	Description string `json:"description" yaml:"description" binding:"required"`
	Location    string `json:"location" yaml:"location" binding:"required"`
	PhotoURL    string `json:"photoURL" yaml:"photoURL" binding:"required,httpurl"`
}
