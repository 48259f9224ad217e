package service

import (
	"fmt"
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

const dedupTitlePrefixLen = 50

// dedupKey identifies "the same issue reported by multiple agents".
type dedupKey struct {
	filePath    string
	category    core.Category
	titlePrefix string
}

func keyFor(f *core.Finding) dedupKey {
	title := strings.ToLower(f.Title)
	if len(title) > dedupTitlePrefixLen {
		title = title[:dedupTitlePrefixLen]
	}
	return dedupKey{filePath: f.FilePath, category: f.Category, titlePrefix: title}
}

// Consolidate merges findings across agent results. Duplicates keep the
// first-seen finding's fields, take the maximum severity, and append the
// later description with an attribution tag when it adds new text. Output
// order is first-occurrence order over results in input order.
func Consolidate(results []core.AgentResult) []core.Finding {
	index := make(map[dedupKey]int)
	var consolidated []core.Finding

	for ri := range results {
		result := &results[ri]
		for fi := range result.Findings {
			finding := result.Findings[fi]
			key := keyFor(&finding)

			i, seen := index[key]
			if !seen {
				index[key] = len(consolidated)
				consolidated = append(consolidated, finding)
				continue
			}

			existing := &consolidated[i]
			existing.Severity = core.MaxSeverity(existing.Severity, finding.Severity)
			if finding.Description != "" && !strings.Contains(existing.Description, finding.Description) {
				existing.Description += fmt.Sprintf(
					"\n\n[Additional context from %s]: %s", result.AgentName, finding.Description)
			}
		}
	}

	return consolidated
}
