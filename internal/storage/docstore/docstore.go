package docstore

import (
	"context"
	"errors"
)

// IDField is the key under which every backend exposes the document identifier.
const IDField = "_id"

var (
	ErrNotFound  = errors.New("document not found")
	ErrInvalidID = errors.New("invalid document id")
)

// Document is a schema-free record. Values are the ones produced by encoding/json
// decoding plus time.Time for normalized date fields.
type Document map[string]interface{}

// ID returns the store-assigned identifier, or "" if the document has none.
func (d Document) ID() string {
	if v, ok := d[IDField].(string); ok {
		return v
	}
	return ""
}

// Clone returns a shallow copy of the document.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// WithoutID returns a shallow copy with the identifier removed.
func (d Document) WithoutID() Document {
	out := d.Clone()
	delete(out, IDField)
	return out
}

// PushResult reports what an append did to the stored document.
type PushResult struct {
	Matched  bool
	Modified bool
}

// Store is implemented by every document backend (mongo, postgres, redis).
// All methods take the collection name so one store serves every resource.
type Store interface {
	Insert(ctx context.Context, collection string, doc Document) (Document, error)
	Find(ctx context.Context, collection string, q Query) ([]Document, error)
	FindByID(ctx context.Context, collection, id string) (Document, error)
	// UpdateByID sets the given top-level fields and returns the post-update document.
	UpdateByID(ctx context.Context, collection, id string, set Document) (Document, error)
	// DeleteByID removes the document and returns it as it was before deletion.
	DeleteByID(ctx context.Context, collection, id string) (Document, error)
	// PushByID appends values to the array stored under field.
	PushByID(ctx context.Context, collection, id, field string, values []interface{}) (PushResult, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
