package classify

import (
	"errors"
	"fmt"

	"github.com/forensica/triage/internal/models"
)

// ErrMalformedRecord reports a record with no path. The whole batch is
// rejected; there is no partial classification of a malformed set.
var ErrMalformedRecord = errors.New("record missing required path")

// Classifier partitions record sets into threat and safe index sets.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier using the default rule cascade.
func NewClassifier() *Classifier {
	return &Classifier{rules: DefaultRules()}
}

// NewClassifierWithRules returns a classifier with a custom ordered cascade.
func NewClassifierWithRules(rules []Rule) *Classifier {
	return &Classifier{rules: rules}
}

// Partition is the threat/safe split of a record set. The two index sets are
// disjoint and together cover every index of the input sequence.
type Partition struct {
	Threat []int
	Safe   []int

	labels []Label
}

// IsThreat reports whether the record at index i was labeled a threat.
// Out-of-range indices are safe.
func (p *Partition) IsThreat(i int) bool {
	if i < 0 || i >= len(p.labels) {
		return false
	}
	return p.labels[i] == LabelThreat
}

// Len returns the number of classified records.
func (p *Partition) Len() int {
	return len(p.labels)
}

// Classify labels every record and returns the partition. A record with an
// empty path aborts the whole batch with ErrMalformedRecord.
func (c *Classifier) Classify(records []models.Record) (*Partition, error) {
	for i := range records {
		if records[i].Path == "" {
			return nil, fmt.Errorf("record %d: %w", i, ErrMalformedRecord)
		}
	}

	p := &Partition{labels: make([]Label, len(records))}
	for i := range records {
		label := c.classifyOne(&records[i])
		p.labels[i] = label
		if label == LabelThreat {
			p.Threat = append(p.Threat, i)
		} else {
			p.Safe = append(p.Safe, i)
		}
	}
	return p, nil
}

// classifyOne applies the cascade; unmatched records default to safe.
func (c *Classifier) classifyOne(r *models.Record) Label {
	for _, rule := range c.rules {
		if rule.Matches(r) {
			return rule.Label
		}
	}
	return LabelSafe
}
