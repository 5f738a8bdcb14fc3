// Package models defines core data structures for records, batches, and threat reports.
package models

import (
	"encoding/json"
	"time"
)

// Record is one forensic item recovered from a device or filesystem image.
// Records are immutable once ingested; Path is the unique identifier.
type Record struct {
	Path    string   `json:"path"`
	Type    string   `json:"type"`
	Content Content  `json:"content,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// Text returns the record's free-text content, which may be empty.
func (r *Record) Text() string {
	return r.Content.Text
}

// Content holds the free-text content of a record. Metadata exports encode it
// either as a plain JSON string or as an object with a "text" field (the OCR
// pipeline emits the object form); both decode to the same value.
type Content struct {
	Text string
}

// UnmarshalJSON accepts null, a plain string, or an object with a "text" field.
func (c *Content) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		c.Text = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		c.Text = s
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	c.Text = obj.Text
	return nil
}

// MarshalJSON always emits the plain string form.
func (c Content) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Text)
}

// Batch is a stored collection of records ingested together.
type Batch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Records   []Record  `json:"records,omitempty"`
}
