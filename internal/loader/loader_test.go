package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParse_array(t *testing.T) {
	data := []byte(`[
		{"path": "a_threat.txt", "type": "file", "content": "planning an attack", "tags": ["rifle", "mask"]},
		{"path": "b.jpg", "type": "image", "content": {"text": "ocr text"}, "tags": []}
	]`)
	records, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	if records[0].Path != "a_threat.txt" || records[0].Text() != "planning an attack" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if records[1].Text() != "ocr text" {
		t.Errorf("object-form content = %q", records[1].Text())
	}
}

func TestParse_singleObject(t *testing.T) {
	records, err := Parse([]byte(`{"path": "x.txt", "type": "file"}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Path != "x.txt" {
		t.Errorf("records = %+v", records)
	}
}

func TestParse_filePathAlias(t *testing.T) {
	records, err := Parse([]byte(`{"file_path": "legacy.txt", "type": "file"}`))
	if err != nil {
		t.Fatal(err)
	}
	if records[0].Path != "legacy.txt" {
		t.Errorf("path = %q, want file_path alias honored", records[0].Path)
	}
}

func TestParse_schemaViolations(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"tags not an array", `{"path": "x", "tags": "rifle"}`},
		{"content is a number", `{"path": "x", "content": 42}`},
		{"array of non-objects", `["just", "strings"]`},
		{"path not a string", `{"path": 5}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Errorf("expected schema validation error for %s", tt.data)
			}
		})
	}
}

func TestParse_invalidJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Error("expected parse error")
	}
}

func TestDirLoader_Load(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "note.txt"), []byte("meet at the dock"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte{0xff, 0xd8}, 0644); err != nil {
		t.Fatal(err)
	}

	records, err := NewDirLoader(nil).Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v", records)
	}

	byType := map[string]int{}
	for _, r := range records {
		byType[r.Type]++
		if r.Type == "file" && r.Text() != "meet at the dock" {
			t.Errorf("file content = %q", r.Text())
		}
		if r.Type == "image" && r.Text() != "" {
			t.Errorf("image content should stay empty, got %q", r.Text())
		}
	}
	if byType["file"] != 1 || byType["image"] != 1 {
		t.Errorf("type counts = %v", byType)
	}
}

func TestDirLoader_missingDir(t *testing.T) {
	if _, err := NewDirLoader(nil).Load(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing directory")
	}
}
