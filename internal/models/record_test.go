package models

import (
	"encoding/json"
	"testing"
)

func TestContent_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain string", `"hello world"`, "hello world"},
		{"object form", `{"text":"ocr output"}`, "ocr output"},
		{"object without text", `{"lang":"en"}`, ""},
		{"null", `null`, ""},
		{"empty string", `""`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Content
			if err := json.Unmarshal([]byte(tt.in), &c); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if c.Text != tt.want {
				t.Errorf("got %q, want %q", c.Text, tt.want)
			}
		})
	}
}

func TestRecord_roundTrip(t *testing.T) {
	in := `{"path":"a_threat.txt","type":"file","content":{"text":"planning an attack"},"tags":["rifle","mask"]}`
	var r Record
	if err := json.Unmarshal([]byte(in), &r); err != nil {
		t.Fatal(err)
	}
	if r.Path != "a_threat.txt" || r.Type != "file" {
		t.Errorf("unexpected record: %+v", r)
	}
	if r.Text() != "planning an attack" {
		t.Errorf("Text() = %q", r.Text())
	}
	if len(r.Tags) != 2 {
		t.Errorf("tags: %v", r.Tags)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var again Record
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-decode marshalled record: %v\n%s", err, out)
	}
	if again.Text() != r.Text() {
		t.Errorf("content lost in round trip: %q vs %q", again.Text(), r.Text())
	}
}
