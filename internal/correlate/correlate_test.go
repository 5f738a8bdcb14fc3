package correlate

import (
	"testing"

	"github.com/forensica/triage/internal/models"
)

func tagged(path string, tags ...string) models.Record {
	return models.Record{Path: path, Type: "file", Tags: tags}
}

func TestBuildTagIndex_bidirectionalConsistency(t *testing.T) {
	records := []models.Record{
		tagged("a.txt", "rifle", "mask"),
		tagged("b.txt", "mask", "gloves"),
		tagged("c.txt"),
		tagged("d.txt", "rifle", "rifle"), // duplicate treated as a set
	}
	idx := BuildTagIndex(records)

	for tag, files := range idx.TagToFiles {
		for _, f := range files {
			if !contains(idx.FileToTags[f], tag) {
				t.Errorf("tag %q lists file %q but FileToTags misses the tag", tag, f)
			}
		}
	}
	for file, tags := range idx.FileToTags {
		for _, tag := range tags {
			if !contains(idx.TagToFiles[tag], file) {
				t.Errorf("file %q lists tag %q but TagToFiles misses the file", file, tag)
			}
		}
	}

	if got := idx.TagToFiles["rifle"]; len(got) != 2 {
		t.Errorf("rifle files = %v, want a.txt and d.txt once each", got)
	}
	if got := idx.FileToTags["d.txt"]; len(got) != 1 {
		t.Errorf("d.txt tags = %v, duplicate tag should collapse", got)
	}
	if _, ok := idx.FileToTags["c.txt"]; ok {
		t.Error("untagged file should not appear in FileToTags")
	}
}

func TestSharedTags(t *testing.T) {
	records := []models.Record{
		tagged("a.txt", "rifle", "mask"),
		tagged("b.txt", "mask"),
		tagged("c.txt", "solo"),
	}
	shared := BuildTagIndex(records).SharedTags()
	if len(shared) != 1 {
		t.Fatalf("shared = %v, want only mask", shared)
	}
	if files := shared["mask"]; len(files) != 2 {
		t.Errorf("mask files = %v", files)
	}
}

func TestSharedTags_singleOverlap(t *testing.T) {
	records := []models.Record{
		tagged("a_threat.txt", "rifle", "mask"),
		tagged("b_safe.txt", "food"),
	}
	shared := BuildTagIndex(records).SharedTags()
	if len(shared) != 0 {
		t.Errorf("no tag is shared by more than one file, got %v", shared)
	}
}

func TestCooccurrence(t *testing.T) {
	records := []models.Record{
		tagged("a.txt", "rifle", "mask", "van"),
		tagged("b.txt", "mask", "rifle"),
		tagged("c.txt", "van"),
	}
	counts := BuildTagIndex(records).Cooccurrence()

	// a.txt contributes C(3,2)=3 pairs, b.txt contributes 1.
	if len(counts) != 3 {
		t.Fatalf("pairs = %v, want 3 distinct pairs", counts)
	}
	if got := counts[NewTagPair("rifle", "mask")]; got != 2 {
		t.Errorf("(mask,rifle) count = %d, want 2", got)
	}
	if got := counts[NewTagPair("van", "mask")]; got != 1 {
		t.Errorf("(mask,van) count = %d, want 1", got)
	}
	if got := counts[NewTagPair("rifle", "van")]; got != 1 {
		t.Errorf("(rifle,van) count = %d, want 1", got)
	}
}

func TestNewTagPair_canonical(t *testing.T) {
	ab := NewTagPair("alpha", "beta")
	ba := NewTagPair("beta", "alpha")
	if ab != ba {
		t.Errorf("pair not canonical: %v vs %v", ab, ba)
	}
	if ab.First != "alpha" || ab.Second != "beta" {
		t.Errorf("pair = %v", ab)
	}
}

func TestCooccurrence_orderIndependence(t *testing.T) {
	forward := []models.Record{
		tagged("a.txt", "x", "y"),
		tagged("b.txt", "y", "x"),
	}
	reversed := []models.Record{forward[1], forward[0]}

	c1 := BuildTagIndex(forward).Cooccurrence()
	c2 := BuildTagIndex(reversed).Cooccurrence()
	if len(c1) != len(c2) {
		t.Fatalf("counts differ: %v vs %v", c1, c2)
	}
	for pair, n := range c1 {
		if c2[pair] != n {
			t.Errorf("pair %v: %d vs %d", pair, n, c2[pair])
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
