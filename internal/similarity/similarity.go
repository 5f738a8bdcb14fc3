// Package similarity computes pairwise Jaccard word-overlap between the text
// contents of file records.
package similarity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/forensica/triage/internal/models"
)

// DefaultThreshold is the minimum similarity (exclusive) for an edge to be
// recorded.
const DefaultThreshold = 0.1

var wordPattern = regexp.MustCompile(`\w+`)

// Tokenize splits text into its set of case-folded word tokens (maximal runs
// of word characters).
func Tokenize(text string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		tokens[w] = struct{}{}
	}
	return tokens
}

// Analyzer compares record contents pairwise. The scan is quadratic in the
// number of text-bearing records, which is acceptable for triage batch sizes.
type Analyzer struct {
	threshold float64
}

// NewAnalyzer returns an analyzer emitting edges with similarity strictly
// above threshold. A non-positive threshold selects DefaultThreshold.
func NewAnalyzer(threshold float64) *Analyzer {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Analyzer{threshold: threshold}
}

// Compare computes Jaccard similarity for every unordered pair of distinct
// file-type records with non-empty text. Pairs where either side tokenizes to
// the empty set are skipped. Edges are emitted in input pair order.
func (a *Analyzer) Compare(records []models.Record) []models.SimilarityEdge {
	type candidate struct {
		path   string
		tokens map[string]struct{}
	}
	var texts []candidate
	for i := range records {
		if records[i].Type != "file" || records[i].Text() == "" {
			continue
		}
		tokens := Tokenize(records[i].Text())
		if len(tokens) == 0 {
			continue
		}
		texts = append(texts, candidate{path: records[i].Path, tokens: tokens})
	}

	var edges []models.SimilarityEdge
	for i := 0; i < len(texts); i++ {
		for j := i + 1; j < len(texts); j++ {
			shared := intersect(texts[i].tokens, texts[j].tokens)
			union := len(texts[i].tokens) + len(texts[j].tokens) - len(shared)
			score := float64(len(shared)) / float64(union)
			if score <= a.threshold {
				continue
			}
			sort.Strings(shared)
			edges = append(edges, models.SimilarityEdge{
				File1:       texts[i].path,
				File2:       texts[j].path,
				Similarity:  score,
				CommonWords: shared,
			})
		}
	}
	return edges
}

func intersect(a, b map[string]struct{}) []string {
	if len(b) < len(a) {
		a, b = b, a
	}
	var out []string
	for w := range a {
		if _, ok := b[w]; ok {
			out = append(out, w)
		}
	}
	return out
}
