// Package store persists computed layouts so they can be fetched again by id.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and single-instance servers
//   - [FileStore]: one JSON file per document, for the CLI
//   - [MongoStore]: MongoDB collection, for shared deployments
//
// Documents are identified by random UUIDs assigned on first save:
//
//	doc := &store.Document{Input: in, Layout: out}
//	if err := s.Save(ctx, doc); err != nil {
//	    return err
//	}
//	again, err := s.Get(ctx, doc.ID)
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/procmap/pkg/graph"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document has the requested id.
	ErrNotFound = errors.New("layout not found")

	// ErrExpired is returned when a document exists but has passed its
	// expiration time.
	ErrExpired = errors.New("layout expired")
)

// DefaultTTL is how long saved layouts are kept.
const DefaultTTL = 30 * 24 * time.Hour

// Document is a saved layout together with the input it was computed from.
type Document struct {
	ID        string       `json:"id" bson:"_id"`
	Input     graph.Input  `json:"input" bson:"input"`
	Layout    graph.Layout `json:"layout" bson:"layout"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
	// ExpiresAt is zero for documents that never expire.
	ExpiresAt time.Time `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
}

// IsExpired reports whether the document has passed its expiration time.
func (d *Document) IsExpired(now time.Time) bool {
	return !d.ExpiresAt.IsZero() && now.After(d.ExpiresAt)
}

// Store is the interface for layout storage backends.
// Implementations are safe for concurrent use.
type Store interface {
	// Save stores doc. An empty ID is replaced by a new one and a zero
	// CreatedAt by the current time.
	Save(ctx context.Context, doc *Document) error

	// Get returns the document with id, ErrNotFound if there is none, or
	// ErrExpired if it has expired.
	Get(ctx context.Context, id string) (*Document, error)

	// Delete removes a document. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired documents.
	Cleanup(ctx context.Context) error

	Close() error
}

// NewID returns a random document id.
func NewID() string {
	return uuid.NewString()
}

// prepare fills the id and creation time of a document about to be saved.
func prepare(doc *Document, now time.Time) {
	if doc.ID == "" {
		doc.ID = NewID()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now.UTC()
	}
}
