// Package correlate builds tag/file indices and derives shared-tag groups and
// pairwise tag co-occurrence counts from a record set.
package correlate

import (
	"sort"

	"github.com/forensica/triage/internal/models"
)

// TagIndex holds the bidirectional tag/file mappings for a record set.
// Invariant: a path appears in TagToFiles[t] iff t appears in FileToTags[path].
type TagIndex struct {
	TagToFiles map[string][]string
	FileToTags map[string][]string
}

// BuildTagIndex indexes every record's tags. Duplicate tags on a single
// record are treated as a set; first-occurrence order is preserved.
func BuildTagIndex(records []models.Record) *TagIndex {
	idx := &TagIndex{
		TagToFiles: make(map[string][]string),
		FileToTags: make(map[string][]string),
	}
	for i := range records {
		path := records[i].Path
		for _, tag := range uniqueTags(records[i].Tags) {
			idx.TagToFiles[tag] = append(idx.TagToFiles[tag], path)
			idx.FileToTags[path] = append(idx.FileToTags[path], tag)
		}
	}
	return idx
}

// SharedTags returns the tags carried by more than one file, mapped to the
// paths carrying them.
func (idx *TagIndex) SharedTags() map[string][]string {
	shared := make(map[string][]string)
	for tag, files := range idx.TagToFiles {
		if len(files) > 1 {
			shared[tag] = files
		}
	}
	return shared
}

// TagPair is a canonicalized unordered pair of distinct tags (First <= Second),
// so (A,B) and (B,A) never both exist as keys.
type TagPair struct {
	First  string
	Second string
}

// NewTagPair canonicalizes two tag names into a TagPair.
func NewTagPair(a, b string) TagPair {
	if b < a {
		a, b = b, a
	}
	return TagPair{First: a, Second: b}
}

// Cooccurrence counts, for every canonical tag pair, the number of distinct
// files on which both tags appear. Only files with two or more tags
// contribute; all C(k,2) pairs of a file's k tags are counted once each.
func (idx *TagIndex) Cooccurrence() map[TagPair]int {
	counts := make(map[TagPair]int)
	for _, tags := range idx.FileToTags {
		if len(tags) < 2 {
			continue
		}
		for i := 0; i < len(tags); i++ {
			for j := i + 1; j < len(tags); j++ {
				counts[NewTagPair(tags[i], tags[j])]++
			}
		}
	}
	return counts
}

// Correlations bundles the derived tag statistics for one record set.
type Correlations struct {
	Index        *TagIndex
	SharedTags   map[string][]string
	Cooccurrence map[TagPair]int
}

// Analyze builds the TagIndex and derives shared tags and co-occurrence counts.
func Analyze(records []models.Record) *Correlations {
	idx := BuildTagIndex(records)
	return &Correlations{
		Index:        idx,
		SharedTags:   idx.SharedTags(),
		Cooccurrence: idx.Cooccurrence(),
	}
}

// Pairs flattens the co-occurrence map into a slice sorted by tag names, for
// stable report output.
func (c *Correlations) Pairs() []models.CooccurrencePair {
	pairs := make([]models.CooccurrencePair, 0, len(c.Cooccurrence))
	for pair, count := range c.Cooccurrence {
		pairs = append(pairs, models.CooccurrencePair{
			First:  pair.First,
			Second: pair.Second,
			Count:  count,
		})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].First != pairs[j].First {
			return pairs[i].First < pairs[j].First
		}
		return pairs[i].Second < pairs[j].Second
	})
	return pairs
}

func uniqueTags(tags []string) []string {
	if len(tags) < 2 {
		return tags
	}
	seen := make(map[string]struct{}, len(tags))
	out := tags[:0:0]
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
