package service

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// assignmentPattern matches a credential-looking name assigned a non-empty
// quoted literal.
var assignmentPattern = regexp.MustCompile(
	`(?i)\b(password|passwd|api_?key|secret|token|access_key)\b\s*[:=]\s*["'][^"']+["']`)

// keyMaterialPattern matches well-known credential prefixes regardless of
// where they appear on the line.
var keyMaterialPattern = regexp.MustCompile(
	`\b(sk-[A-Za-z0-9]{16,}|ghp_[A-Za-z0-9]{20,}|gho_[A-Za-z0-9]{20,}|AKIA[0-9A-Z]{16}|AIza[0-9A-Za-z_-]{30,}|xox[baprs]-[A-Za-z0-9-]{10,})`)

// falsePositiveMarkers exempt a line from the assignment heuristic: env
// lookups, placeholders and empty defaults are not leaked secrets.
var falsePositiveMarkers = []string{
	"os.getenv", "os.environ", "os.Getenv", "getenv(",
	"example", "your-", "changeme", "placeholder", "redacted",
	`= ""`, `= ''`, "= None", "= nil",
}

// ScanForSecrets is a best-effort textual scan for hardcoded credentials.
// It is a heuristic, not a guarantee; findings are phrased so the secret
// escalation rule picks them up. Output is ordered by path then line.
func ScanForSecrets(files map[string]string) []core.Finding {
	var findings []core.Finding

	for _, path := range sortedKeys(files) {
		for i, line := range strings.Split(files[path], "\n") {
			if match := scanLine(line); match != "" {
				findings = append(findings, core.Finding{
					Category: core.CategorySecurity,
					Severity: core.SeverityHigh,
					Title:    match,
					Description: fmt.Sprintf(
						"Line %d of %s appears to contain a hardcoded secret. "+
							"Move the value to an environment variable or secret store.",
						i+1, path),
					FilePath:    path,
					LineNumber:  i + 1,
					CodeSnippet: strings.TrimSpace(line),
				})
			}
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].FilePath != findings[j].FilePath {
			return findings[i].FilePath < findings[j].FilePath
		}
		return findings[i].LineNumber < findings[j].LineNumber
	})
	return findings
}

func scanLine(line string) string {
	if keyMaterialPattern.MatchString(line) {
		return "Potential hardcoded credential material"
	}
	if !assignmentPattern.MatchString(line) {
		return ""
	}
	lower := strings.ToLower(line)
	for _, marker := range falsePositiveMarkers {
		if strings.Contains(lower, strings.ToLower(marker)) {
			return ""
		}
	}
	return "Potential hardcoded secret assignment"
}
