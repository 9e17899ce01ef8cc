package db

import (
	"context"
	"errors"
)

// Collection names used by the application.
const (
	ThingsCollection = "Things"
	UsersCollection  = "Users"
)

// ErrNotFound is returned by a DocumentStore when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store failure classes surfaced by the repositories.
var (
	ErrStoreQuery = errors.New("store query failed")
	ErrStoreRead  = errors.New("store read failed")
	ErrStoreWrite = errors.New("store write failed")
)

// Document is a raw stored document: its store-assigned ID and its body.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// Filter is an equality filter on a single field.
type Filter struct {
	Field string
	Value interface{}
}

// OrderBy orders query results on a single field.
type OrderBy struct {
	Field string
	Desc  bool
}

// DocumentStore defines the document database primitives the repositories rely on.
type DocumentStore interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, collection, id string) (*Document, error)
	Query(ctx context.Context, collection string, filter Filter, order OrderBy) ([]Document, error)
	// Add creates a document with a store-assigned ID and returns that ID.
	Add(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// Set creates or overwrites the document with the given ID.
	Set(ctx context.Context, collection, id string, data map[string]interface{}) error
	// Merge writes the given fields, leaving the others untouched. It creates the document if needed.
	Merge(ctx context.Context, collection, id string, data map[string]interface{}) error
	// Update writes the given fields of an existing document; ErrNotFound when it does not exist.
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Close() error
}
