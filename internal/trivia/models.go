package trivia

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Document is the wire representation of one operator's trivia page.
// The JSON shape is fixed: name, trivia_items, url — nothing else is
// emitted, so a decode/encode cycle reproduces the authored document
// byte-for-byte up to formatting.
type Document struct {
	Name        string `json:"name" bson:"name"`
	TriviaItems []Item `json:"trivia_items" bson:"trivia_items"`
	URL         string `json:"url" bson:"url"`
}

// Item is a single trivia entry. SubItems elaborates on Text and is
// omitted entirely when absent.
type Item struct {
	Text     string   `json:"text" bson:"text"`
	SubItems []string `json:"sub_items,omitempty" bson:"sub_items,omitempty"`
}

// Record is the persistence envelope around a Document. Repositories
// store Records; the API hands out the inner Document so the wire shape
// stays exactly the three recognized fields.
type Record struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Document   Document  `bson:"document" json:"document"`
	ArchiveKey string    `bson:"archiveKey,omitempty" json:"archiveKey,omitempty"`
	FetchedAt  time.Time `bson:"fetchedAt,omitempty" json:"fetchedAt,omitempty"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// ValidationError describes why a document was rejected by the loader.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("trivia: invalid document: %s: %s", e.Field, e.Reason)
}

// Validate checks the invariants every document must hold: non-empty
// name and url, non-empty text on every item, and sub_items (when
// present) being a non-empty list of non-empty strings.
func (d *Document) Validate() error {
	if d.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if d.URL == "" {
		return &ValidationError{Field: "url", Reason: "must not be empty"}
	}
	for i, it := range d.TriviaItems {
		if it.Text == "" {
			return &ValidationError{Field: fmt.Sprintf("trivia_items[%d].text", i), Reason: "must not be empty"}
		}
		if it.SubItems != nil && len(it.SubItems) == 0 {
			return &ValidationError{Field: fmt.Sprintf("trivia_items[%d].sub_items", i), Reason: "present but empty"}
		}
		for j, s := range it.SubItems {
			if s == "" {
				return &ValidationError{Field: fmt.Sprintf("trivia_items[%d].sub_items[%d]", i, j), Reason: "must not be empty"}
			}
		}
	}
	return nil
}

// Decode parses and validates a serialized document. Unknown fields are
// rejected rather than silently dropped.
func Decode(data []byte) (*Document, error) {
	var d Document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("trivia: decode document: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Encode serializes the document with the stable field order.
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// EncodeIndent serializes the document pretty-printed for on-disk export.
func (d *Document) EncodeIndent() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
