// Package cli provides output formatting for the triage command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/forensica/triage/internal/keyword"
	"github.com/forensica/triage/internal/models"
	"github.com/forensica/triage/pkg/utils"
)

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// OutputFormat selects how results are written.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const ruleLine = "─────────────────────────────────────────────────────────"

// WriteReport writes a threat report to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteReport(w io.Writer, report *models.ThreatReport, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	default:
		writeReportText(w, report)
		return nil
	}
}

func writeReportText(w io.Writer, report *models.ThreatReport) {
	fmt.Fprintf(w, "\n%s\n", ruleLine)
	fmt.Fprintln(w, "THREAT ASSESSMENT REPORT")
	fmt.Fprintf(w, "%s\n", ruleLine)
	fmt.Fprintf(w, "Items analyzed: %d (%d threat, %d safe)\n",
		report.Summary.TotalItems, report.Summary.ThreatItems, report.Summary.SafeItems)
	fmt.Fprintf(w, "Weapon-related items: %d\n", report.Summary.WeaponRelatedItems)

	if len(report.KeyThreats.WeaponRelatedTags) > 0 {
		fmt.Fprintf(w, "\nWeapon-related tags: %s\n", strings.Join(report.KeyThreats.WeaponRelatedTags, ", "))
	}
	if len(report.KeyThreats.RelatedFiles) > 0 {
		fmt.Fprintf(w, "Files sharing those tags: %s\n", strings.Join(report.KeyThreats.RelatedFiles, ", "))
	}
	if len(report.KeyThreats.KeywordOccurrences) > 0 {
		fmt.Fprintln(w, "\nContent keyword occurrences:")
		for _, kw := range sortedKeys(report.KeyThreats.KeywordOccurrences) {
			files := report.KeyThreats.KeywordOccurrences[kw]
			fmt.Fprintf(w, "  %-12s %s\n", kw, strings.Join(files, ", "))
		}
	}

	if len(report.Timeline) > 0 {
		fmt.Fprintln(w, "\nTimeline:")
		for _, date := range sortedKeys(report.Timeline) {
			for _, path := range report.Timeline[date] {
				fmt.Fprintf(w, "  %s  %s\n", date, path)
			}
		}
	}

	fmt.Fprintf(w, "\nRelationship graph: %d nodes, %d edges\n",
		report.GraphStats.Nodes, report.GraphStats.Edges)
	for _, node := range report.GraphStats.TopCentralNodes {
		fmt.Fprintf(w, "  %-24s centrality %.3f\n", node.Node, node.Centrality)
	}
	if report.GraphStats.Communities > 0 {
		fmt.Fprintf(w, "Communities: %d (largest %d members)\n",
			report.GraphStats.Communities, report.GraphStats.LargestCommunitySize)
	}

	if len(report.Connections.ContentSimilarities) > 0 {
		fmt.Fprintln(w, "\nContent similarities:")
		for _, edge := range report.Connections.ContentSimilarities {
			fmt.Fprintf(w, "  %s <-> %s  %.3f\n", edge.File1, edge.File2, edge.Similarity)
		}
	}

	if len(report.TextAnalysis) > 0 {
		fmt.Fprintln(w, "\nPer-file text analysis:")
		for _, ta := range report.TextAnalysis {
			fmt.Fprintf(w, "  %s: %s\n", ta.File, utils.Truncate(ta.Verdict.Summary, 120))
		}
	}
	fmt.Fprintln(w)
}

// WriteSearchResults writes keyword search hits to w in the given format.
func WriteSearchResults(w io.Writer, results []*keyword.Result, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if results == nil {
			results = []*keyword.Result{}
		}
		return enc.Encode(results)
	default:
		fmt.Fprintf(w, "\nFound %d results\n\n", len(results))
		for i, r := range results {
			fmt.Fprintf(w, "%2d. %-40s score %.4f\n", i+1, r.Path, r.Score)
		}
		fmt.Fprintln(w)
		return nil
	}
}
