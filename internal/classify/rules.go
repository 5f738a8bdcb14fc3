// Package classify labels records as threat or safe using an ordered rule cascade.
package classify

import (
	"strings"

	"github.com/forensica/triage/internal/models"
)

// Label is the classification outcome of a rule.
type Label int

const (
	// LabelThreat marks a record as a potential threat item.
	LabelThreat Label = iota
	// LabelSafe marks a record as safe.
	LabelSafe
)

// String returns the label name.
func (l Label) String() string {
	if l == LabelThreat {
		return "threat"
	}
	return "safe"
}

// Rule is one classification predicate. Rules are evaluated in a fixed
// sequence and the first matching rule decides the record's label; the
// ordering is a deliberate tie-break and must not be changed, since
// reordering changes outcomes on ambiguous records.
type Rule struct {
	Name    string
	Label   Label
	Matches func(r *models.Record) bool
}

// threatContentVocabulary is the fixed content vocabulary checked by the
// content rule (case-insensitive substring).
var threatContentVocabulary = []string{"bomb", "attack", "explosive", "threat", "terrorist"}

// weaponTagVocabulary is the fixed weapon vocabulary checked against the
// record's tags rendered as text (case-insensitive substring).
var weaponTagVocabulary = []string{"assault rifle", "rifle", "revolver", "weapon", "bulletproof"}

// DefaultRules returns the classification cascade in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:  "path-threat-marker",
			Label: LabelThreat,
			Matches: func(r *models.Record) bool {
				return strings.Contains(strings.ToLower(r.Path), "_threat")
			},
		},
		{
			Name:  "content-threat-word",
			Label: LabelThreat,
			Matches: func(r *models.Record) bool {
				return strings.Contains(strings.ToLower(r.Text()), "threat")
			},
		},
		{
			Name:  "path-safe-marker",
			Label: LabelSafe,
			Matches: func(r *models.Record) bool {
				return strings.Contains(strings.ToLower(r.Path), "_safe")
			},
		},
		{
			Name:  "content-threat-vocabulary",
			Label: LabelThreat,
			Matches: func(r *models.Record) bool {
				text := strings.ToLower(r.Text())
				if text == "" {
					return false
				}
				for _, word := range threatContentVocabulary {
					if strings.Contains(text, word) {
						return true
					}
				}
				return false
			},
		},
		{
			Name:  "weapon-tags",
			Label: LabelThreat,
			Matches: func(r *models.Record) bool {
				tags := strings.ToLower(strings.Join(r.Tags, ", "))
				for _, weapon := range weaponTagVocabulary {
					if strings.Contains(tags, weapon) {
						return true
					}
				}
				return false
			},
		},
	}
}
