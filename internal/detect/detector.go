// Package detect provides pattern-based detection of threat-category keywords
// and sensitive entities (emails, URLs, phone numbers, card-like numbers) in text.
package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/forensica/triage/internal/models"
)

// categoryPatterns pairs a threat category with its trigger patterns.
// Patterns are word-boundary anchored and matched case-insensitively.
// The table is an ordered slice so detection output is deterministic.
type categoryPatterns struct {
	category string
	patterns []string
}

var threatKeywordTable = []categoryPatterns{
	{"Financial fraud", []string{
		`\bbank card\b`,
		`\bapproval code\b`,
		`\bcash receipt\b`,
		`\btotal\b`,
		`\bcash\b`,
		`\bchange\b`,
	}},
	{"Identity theft", []string{
		`\baadhar\b`,
		`\bpan\b`,
		`\bpassport\b`,
		`\bssn\b`,
		`\bdl\b`,
	}},
	{"Weapons/Violence", []string{
		`\bknife\b`,
		`\bgun\b`,
		`\brifle\b`,
		`\bgrenade\b`,
		`\bexplosive\b`,
	}},
	{"Drugs/Illegal", []string{
		`\bcocaine\b`,
		`\bweed\b`,
		`\bheroin\b`,
		`\bmeth\b`,
	}},
	{"Explicit content", []string{
		`\bxxx\b`,
		`\bnsfw\b`,
		`\b18\+`,
	}},
	{"Terrorism", []string{
		`\bbomb\b`,
		`\battack\b`,
		`\bisis\b`,
		`\brecruitment\b`,
		`\brifle\b`,
	}},
	{"Surveillance", []string{
		`\blocation\b`,
		`\brecording\b`,
		`\bcamera\b`,
		`\btracking\b`,
	}},
	{"Encrypted/Hidden", []string{
		`\bencrypted\b`,
		`\bpassword-protected\b`,
		`\bstego\b`,
		`\bsteganography\b`,
	}},
}

// entityPattern pairs an entity type label with its pattern.
type entityPattern struct {
	label   string
	pattern string
}

var entityTable = []entityPattern{
	{"email", `[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`},
	{"url", `https?://[^\s]+`},
	{"phone", `\b\d{3,4}[-.\s]?\d{3,4}[-.\s]?\d{4}\b`},
	{"credit_card", `\b(?:\d[ -]*?){13,16}\b`},
}

// compiledCategory holds a category's compiled patterns.
type compiledCategory struct {
	category string
	patterns []*regexp.Regexp
}

// compiledEntity holds a compiled entity pattern.
type compiledEntity struct {
	label   string
	pattern *regexp.Regexp
}

// Detector matches threat keywords and sensitive entities against text blobs.
// A single Detector is safe for reuse across records.
type Detector struct {
	categories []compiledCategory
	entities   []compiledEntity
}

// NewDetector compiles the fixed keyword and entity tables.
func NewDetector() *Detector {
	d := &Detector{}
	for _, cp := range threatKeywordTable {
		cc := compiledCategory{category: cp.category}
		for _, p := range cp.patterns {
			cc.patterns = append(cc.patterns, regexp.MustCompile(`(?i)`+p))
		}
		d.categories = append(d.categories, cc)
	}
	for _, ep := range entityTable {
		d.entities = append(d.entities, compiledEntity{
			label:   ep.label,
			pattern: regexp.MustCompile(ep.pattern),
		})
	}
	return d
}

// DetectKeywords returns the triggered categories (each once, in table order)
// and all literal keyword matches. Overlapping patterns may match the same
// substring across categories; matches are not deduplicated across categories.
// Empty text yields no matches.
func (d *Detector) DetectKeywords(text string) (categories []string, keywords []string) {
	if text == "" {
		return nil, nil
	}
	for _, cc := range d.categories {
		hit := false
		for _, pat := range cc.patterns {
			for _, m := range pat.FindAllString(text, -1) {
				hit = true
				keywords = append(keywords, m)
			}
		}
		if hit {
			categories = append(categories, cc.category)
		}
	}
	return categories, keywords
}

// DetectEntities returns all detected sensitive entities in text, in table
// order then match order. Empty text yields no entities.
func (d *Detector) DetectEntities(text string) []models.Entity {
	if text == "" {
		return nil
	}
	var ents []models.Entity
	for _, ce := range d.entities {
		for _, m := range ce.pattern.FindAllString(text, -1) {
			ents = append(ents, models.Entity{Type: ce.label, Value: m})
		}
	}
	return ents
}

// Score computes the weighted detection score: one point per keyword match,
// two per entity.
func Score(numKeywords, numEntities int) int {
	return numKeywords + 2*numEntities
}

// Analyze runs keyword and entity detection on one record's text and returns
// the scored verdict. The verdict is independent of the categorizer's
// threat/safe label. Missing text yields score 0, never an error.
func (d *Detector) Analyze(path, text string) models.TextAnalysis {
	cats, keys := d.DetectKeywords(text)
	ents := d.DetectEntities(text)
	score := Score(len(keys), len(ents))

	summary := "No threats detected."
	if score > 0 {
		summary = fmt.Sprintf("Detected threats in categories: %s (score %d).",
			strings.Join(cats, ", "), score)
	}

	return models.TextAnalysis{
		File:     path,
		Entities: ents,
		Verdict: models.ThreatVerdict{
			ThreatDetected: score > 0,
			Score:          score,
			Categories:     cats,
			Keywords:       keys,
			Summary:        summary,
		},
	}
}
