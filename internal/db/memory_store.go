package db

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process DocumentStore with Firestore's semantics for the primitives
// this application uses. Used for local development (STORE_DRIVER=memory) and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	// QueryErr, when set, makes every Query fail with it. Lets tests simulate a missing index.
	QueryErr error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]map[string]interface{})}
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func (s *MemoryStore) collection(name string) map[string]map[string]interface{} {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]map[string]interface{})
		s.collections[name] = c
	}
	return c
}

// Get retrieves a document by ID.
func (s *MemoryStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	return &Document{ID: id, Data: copyData(data)}, nil
}

// Query returns the documents whose filter field equals the filter value. As in Firestore,
// documents without the order field are left out of ordered results.
func (s *MemoryStore) Query(ctx context.Context, collection string, filter Filter, order OrderBy) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	var docs []Document
	for id, data := range s.collections[collection] {
		value, ok := data[filter.Field]
		if !ok || !reflect.DeepEqual(value, filter.Value) {
			continue
		}
		if order.Field != "" {
			if v, ok := data[order.Field]; !ok || v == nil {
				continue
			}
		}
		docs = append(docs, Document{ID: id, Data: copyData(data)})
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if order.Field == "" {
			return docs[i].ID < docs[j].ID
		}
		c := compareValues(docs[i].Data[order.Field], docs[j].Data[order.Field])
		if c == 0 {
			return docs[i].ID < docs[j].ID
		}
		if order.Desc {
			return c > 0
		}
		return c < 0
	})
	return docs, nil
}

// Add creates a document with a generated ID.
func (s *MemoryStore) Add(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = copyData(data)
	return id, nil
}

// Set overwrites the document with the given ID.
func (s *MemoryStore) Set(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(collection)[id] = copyData(data)
	return nil
}

// Merge writes the given fields, creating the document if needed.
func (s *MemoryStore) Merge(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.collection(collection)
	existing, ok := c[id]
	if !ok {
		existing = make(map[string]interface{}, len(data))
		c[id] = existing
	}
	for k, v := range data {
		existing[k] = v
	}
	return nil
}

// Update writes the given fields of an existing document.
func (s *MemoryStore) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.collections[collection][id]
	if !ok {
		return fmt.Errorf("%s/%s: %w", collection, id, ErrNotFound)
	}
	for k, v := range fields {
		existing[k] = v
	}
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

// compareValues orders the value types the converters write: timestamps, strings and numbers.
func compareValues(a, b interface{}) int {
	if ta, ok := asTime(a); ok {
		if tb, ok := asTime(b); ok {
			return ta.Compare(tb)
		}
	}
	if fa, ok := asFloat(a); ok {
		if fb, ok := asFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asTime(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
