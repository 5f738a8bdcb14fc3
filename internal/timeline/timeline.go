// Package timeline groups record paths by calendar dates embedded in them.
package timeline

import (
	"regexp"
	"time"

	"github.com/forensica/triage/internal/models"
)

var datePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

const dateLayout = "2006-01-02"

// Extract scans each record path for an embedded YYYY-MM-DD token and groups
// paths by date string. Only the first token per path is used; tokens that do
// not parse as calendar dates are silently excluded.
func Extract(records []models.Record) map[string][]string {
	groups := make(map[string][]string)
	for i := range records {
		match := datePattern.FindString(records[i].Path)
		if match == "" {
			continue
		}
		parsed, err := time.Parse(dateLayout, match)
		if err != nil {
			continue
		}
		key := parsed.Format(dateLayout)
		groups[key] = append(groups[key], records[i].Path)
	}
	return groups
}
