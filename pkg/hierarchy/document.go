package hierarchy

import (
	"bytes"

	"github.com/goccy/go-json"

	"github.com/matzehuels/biotree/pkg/errors"
)

// Document is one node of a decoded hierarchy document.
//
// Children holds the subtree in document order. A nil entry stands for a
// null child in the source and is built as a label-less leaf.
type Document struct {
	ID       string      `json:"id"`
	Children []*Document `json:"children,omitempty"`

	// Malformed is set when the source node had no string identifier.
	// Such a node is kept as a label-less leaf.
	Malformed bool `json:"-"`
}

// UnmarshalJSON decodes a node, tolerating a missing or non-string id.
func (d *Document) UnmarshalJSON(data []byte) error {
	*d = Document{}
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '{' {
		// Scalars and arrays in a children list carry no identifier.
		d.Malformed = true
		return nil
	}

	var raw struct {
		ID       json.RawMessage `json:"id"`
		Children []*Document     `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id := bytes.TrimSpace(raw.ID)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		d.Malformed = true
		return nil
	}
	if err := json.Unmarshal(id, &d.ID); err != nil {
		d.ID = ""
		d.Malformed = true
		return nil
	}
	d.Children = raw.Children
	return nil
}

// Decode parses a hierarchy document.
//
// The top-level value must be a JSON object. Malformed nodes below it do not
// fail the decode; see [Document.Degraded].
func Decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "empty hierarchy document")
	}
	if trimmed[0] != '{' {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "hierarchy document must be a JSON object")
	}

	var doc Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parse hierarchy document")
	}
	return &doc, nil
}

// Degraded counts the nodes in the document that were kept as label-less
// leaves: malformed nodes and null child entries.
func (d *Document) Degraded() int {
	if d == nil {
		return 1
	}
	n := 0
	if d.Malformed {
		n++
	}
	for _, c := range d.Children {
		n += c.Degraded()
	}
	return n
}

// Count returns the number of nodes in the document, null entries included.
func (d *Document) Count() int {
	if d == nil {
		return 1
	}
	n := 1
	for _, c := range d.Children {
		n += c.Count()
	}
	return n
}
