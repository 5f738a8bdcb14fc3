package analysis

import (
	"strings"

	"github.com/forensica/triage/internal/models"
	"github.com/forensica/triage/internal/timeline"
)

// contentKeywords is the fixed vocabulary scanned for the report's keyword
// occurrence map.
var contentKeywords = []string{"bomb", "attack", "threat", "explosive", "rifle", "planning", "illegal"}

// weaponIndicators mark a tag as weapon-related when its lowercase form
// contains one of them.
var weaponIndicators = []string{"rifle", "revolver", "mask", "bulletproof"}

// GenerateReport synthesizes the threat report from categorization, tag
// correlation, graph statistics, content similarity, per-text detection, and
// the path-date timeline. The report is read-only once returned.
func (s *Session) GenerateReport() *models.ThreatReport {
	correlations := s.Correlations()
	relGraph := s.Graph()

	weaponTags := s.weaponRelatedTags()
	relatedFiles := relatedFiles(weaponTags, correlations.Index.TagToFiles)

	report := &models.ThreatReport{
		Summary: models.ReportSummary{
			TotalItems:         len(s.records),
			ThreatItems:        len(s.partition.Threat),
			SafeItems:          len(s.partition.Safe),
			WeaponRelatedItems: s.countTaggedWith(weaponTags),
		},
		KeyThreats: models.KeyThreats{
			WeaponRelatedTags:  weaponTags,
			RelatedFiles:       relatedFiles,
			KeywordOccurrences: s.keywordOccurrences(),
		},
		Connections: models.Connections{
			TagCooccurrence:     correlations.Pairs(),
			ContentSimilarities: s.threatSimilarities(),
		},
		Timeline:     timeline.Extract(s.records),
		GraphStats:   relGraph.Stats(s.topCentral),
		TextAnalysis: s.AnalyzeTexts(),
	}
	return report
}

// weaponRelatedTags returns the threat items' tags whose lowercase form
// contains a weapon indicator, in first-seen order.
func (s *Session) weaponRelatedTags() []string {
	var tags []string
	seen := make(map[string]struct{})
	for _, idx := range s.partition.Threat {
		for _, tag := range s.records[idx].Tags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			lower := strings.ToLower(tag)
			for _, w := range weaponIndicators {
				if strings.Contains(lower, w) {
					tags = append(tags, tag)
					break
				}
			}
		}
	}
	return tags
}

// relatedFiles unions the carriers of every weapon-related tag, deduplicated
// in first-seen order.
func relatedFiles(weaponTags []string, tagToFiles map[string][]string) []string {
	var files []string
	seen := make(map[string]struct{})
	for _, tag := range weaponTags {
		for _, f := range tagToFiles[tag] {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files
}

// countTaggedWith counts records carrying at least one of the given tags.
func (s *Session) countTaggedWith(tags []string) int {
	if len(tags) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[t] = struct{}{}
	}
	count := 0
	for i := range s.records {
		for _, tag := range s.records[i].Tags {
			if _, ok := set[tag]; ok {
				count++
				break
			}
		}
	}
	return count
}

// keywordOccurrences maps each content keyword to the file-type records whose
// text contains it, in record order.
func (s *Session) keywordOccurrences() map[string][]string {
	occurrences := make(map[string][]string)
	for i := range s.records {
		if s.records[i].Type != "file" || s.records[i].Text() == "" {
			continue
		}
		text := strings.ToLower(s.records[i].Text())
		for _, kw := range contentKeywords {
			if strings.Contains(text, kw) {
				occurrences[kw] = append(occurrences[kw], s.records[i].Path)
			}
		}
	}
	return occurrences
}

// threatSimilarities keeps only similarity edges with at least one endpoint
// in the threat index set.
func (s *Session) threatSimilarities() []models.SimilarityEdge {
	threatPaths := make(map[string]struct{}, len(s.partition.Threat))
	for _, idx := range s.partition.Threat {
		threatPaths[s.records[idx].Path] = struct{}{}
	}
	var out []models.SimilarityEdge
	for _, edge := range s.Similarities() {
		if _, ok := threatPaths[edge.File1]; ok {
			out = append(out, edge)
			continue
		}
		if _, ok := threatPaths[edge.File2]; ok {
			out = append(out, edge)
		}
	}
	return out
}

