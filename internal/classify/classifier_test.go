package classify

import (
	"errors"
	"testing"

	"github.com/forensica/triage/internal/models"
)

func rec(path, content string, tags ...string) models.Record {
	return models.Record{Path: path, Type: "file", Content: models.Content{Text: content}, Tags: tags}
}

func TestClassifier_ruleOrder(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name       string
		record     models.Record
		wantThreat bool
	}{
		{"threat path marker", rec("photos/img_threat.jpg", ""), true},
		{"threat path marker uppercase", rec("photos/IMG_THREAT.jpg", ""), true},
		{"threat word in content", rec("note.txt", "this is a THREAT"), true},
		{"safe marker wins over weapon tags", rec("a_safe.txt", "", "rifle"), false},
		{"safe marker wins over content vocabulary", rec("a_safe.txt", "bomb plans"), false},
		{"threat word beats safe marker", rec("a_safe.txt", "threat inside"), true},
		{"content vocabulary", rec("x.txt", "explosive material found"), true},
		{"weapon tag substring", rec("y.jpg", "", "old assault rifle photo"), true},
		{"weapon tag bulletproof", rec("z.jpg", "", "bulletproof vest"), true},
		{"plain record is safe", rec("grocery.txt", "milk and eggs", "food"), false},
		{"no content no tags", rec("empty.bin", ""), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := c.Classify([]models.Record{tt.record})
			if err != nil {
				t.Fatal(err)
			}
			if got := p.IsThreat(0); got != tt.wantThreat {
				t.Errorf("IsThreat = %v, want %v", got, tt.wantThreat)
			}
		})
	}
}

func TestClassifier_partitionLaw(t *testing.T) {
	c := NewClassifier()
	records := []models.Record{
		rec("a_threat.txt", "planning an attack", "rifle", "mask"),
		rec("b_safe.txt", "grocery list", "food"),
		rec("c.txt", "nothing here"),
		rec("d.jpg", "", "revolver"),
	}
	p, err := c.Classify(records)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]int)
	for _, i := range p.Threat {
		seen[i]++
	}
	for _, i := range p.Safe {
		seen[i]++
	}
	if len(seen) != len(records) {
		t.Errorf("union covers %d indices, want %d", len(seen), len(records))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("index %d appears %d times across the partition", i, n)
		}
	}
	if p.Len() != len(records) {
		t.Errorf("Len = %d, want %d", p.Len(), len(records))
	}
}

func TestClassifier_mixedBatch(t *testing.T) {
	c := NewClassifier()
	records := []models.Record{
		rec("a_threat.txt", "planning an attack", "rifle", "mask"),
		rec("b_safe.txt", "grocery list", "food"),
	}
	p, err := c.Classify(records)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Threat) != 1 || p.Threat[0] != 0 {
		t.Errorf("threat set = %v, want [0]", p.Threat)
	}
	if len(p.Safe) != 1 || p.Safe[0] != 1 {
		t.Errorf("safe set = %v, want [1]", p.Safe)
	}
}

func TestClassifier_malformedRecordAbortsBatch(t *testing.T) {
	c := NewClassifier()
	records := []models.Record{
		rec("ok.txt", "fine"),
		{Type: "file"}, // no path
	}
	p, err := c.Classify(records)
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if p != nil {
		t.Error("expected no partial partition for a malformed batch")
	}
}
