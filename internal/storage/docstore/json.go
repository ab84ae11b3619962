package docstore

import (
	"encoding/json"
	"fmt"
)

// MarshalBody encodes a document without its identifier, for backends that keep
// the id outside the stored body.
func MarshalBody(doc Document) ([]byte, error) {
	data, err := json.Marshal(doc.WithoutID())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return data, nil
}

// UnmarshalBody decodes a stored body and attaches the identifier.
func UnmarshalBody(data []byte, id string) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	if doc == nil {
		doc = Document{}
	}
	doc[IDField] = id
	return doc, nil
}

// MarshalValues encodes values as a JSON array.
func MarshalValues(values []interface{}) ([]byte, error) {
	if values == nil {
		values = []interface{}{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal values: %w", err)
	}
	return data, nil
}
