package analysis

import (
	"errors"
	"testing"

	"github.com/forensica/triage/internal/classify"
	"github.com/forensica/triage/internal/models"
)

func rec(path, typ, content string, tags ...string) models.Record {
	return models.Record{Path: path, Type: typ, Content: models.Content{Text: content}, Tags: tags}
}

func sampleRecords() []models.Record {
	return []models.Record{
		rec("a_threat.txt", "file", "planning an attack", "rifle", "mask"),
		rec("b_safe.txt", "file", "grocery list", "food"),
		rec("c_2023-05-01.txt", "file", "planning an attack tonight", "mask"),
		rec("d.jpg", "image", "", "revolver", "mask"),
	}
}

func TestSession_SetRecords(t *testing.T) {
	s := NewSession(nil, nil)
	if err := s.SetRecords(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	p := s.Partition()
	if p == nil || p.Len() != 4 {
		t.Fatalf("partition = %+v", p)
	}
	// a: path marker; c: "attack" vocabulary; d: weapon tag.
	if len(p.Threat) != 3 || len(p.Safe) != 1 {
		t.Errorf("threat = %v, safe = %v", p.Threat, p.Safe)
	}
}

func TestSession_SetRecords_malformed(t *testing.T) {
	s := NewSession(nil, nil)
	if err := s.SetRecords(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	err := s.SetRecords([]models.Record{{Type: "file"}})
	if !errors.Is(err, classify.ErrMalformedRecord) {
		t.Fatalf("err = %v", err)
	}
	// The previous record set must remain intact after a rejected load.
	if len(s.Records()) != 4 {
		t.Errorf("records = %d, want previous set retained", len(s.Records()))
	}
}

func TestSession_cachesAndInvalidates(t *testing.T) {
	s := NewSession(nil, nil)
	if err := s.SetRecords(sampleRecords()); err != nil {
		t.Fatal(err)
	}

	c1 := s.Correlations()
	g1 := s.Graph()
	if s.Correlations() != c1 || s.Graph() != g1 {
		t.Error("expected cached values on repeated access")
	}

	if err := s.SetRecords(sampleRecords()[:2]); err != nil {
		t.Fatal(err)
	}
	if s.Correlations() == c1 || s.Graph() == g1 {
		t.Error("expected caches rebuilt after SetRecords")
	}
}

func TestSession_graphLabels(t *testing.T) {
	s := NewSession(nil, nil)
	if err := s.SetRecords(sampleRecords()); err != nil {
		t.Fatal(err)
	}
	for _, n := range s.Graph().Nodes() {
		switch n.ID {
		case "a_threat.txt":
			if !n.IsThreat || n.FileType != "file" {
				t.Errorf("a_threat.txt node = %+v", n)
			}
		case "b_safe.txt":
			if n.IsThreat {
				t.Errorf("b_safe.txt marked as threat")
			}
		case "mask":
			if n.Kind != "tag" {
				t.Errorf("mask node = %+v", n)
			}
		}
	}
}
