package core

import "fmt"

// Severity classifies how serious a finding is.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// AllSeverities returns all severities ordered from most to least severe.
// Report grouping and summary lines depend on this order.
func AllSeverities() []Severity {
	return []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo}
}

// Rank returns the numeric rank of a severity for comparisons.
// Higher means more severe; unknown severities rank below info.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 5
	case SeverityHigh:
		return 4
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is a recognized severity.
func (s Severity) Valid() bool {
	return s.Rank() > 0
}

// ParseSeverity converts a raw string into a Severity.
// Empty input defaults to info; unrecognized input is an error so the
// caller can skip the offending item instead of inventing a value.
func ParseSeverity(raw string) (Severity, error) {
	if raw == "" {
		return SeverityInfo, nil
	}
	s := Severity(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown severity %q", raw)
	}
	return s, nil
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Category classifies what kind of issue a finding describes.
type Category string

const (
	CategoryBestPractice  Category = "best_practice"
	CategorySecurity      Category = "security"
	CategoryCost          Category = "cost"
	CategoryPerformance   Category = "performance"
	CategoryQuality       Category = "quality"
	CategoryHallucination Category = "hallucination"
	CategoryTesting       Category = "testing"
	CategoryCompliance    Category = "compliance"
)

// Valid reports whether c is a recognized category.
func (c Category) Valid() bool {
	switch c {
	case CategoryBestPractice, CategorySecurity, CategoryCost, CategoryPerformance,
		CategoryQuality, CategoryHallucination, CategoryTesting, CategoryCompliance:
		return true
	default:
		return false
	}
}

// ParseCategory converts a raw string into a Category.
// Empty input defaults to quality; unrecognized input is an error.
func ParseCategory(raw string) (Category, error) {
	if raw == "" {
		return CategoryQuality, nil
	}
	c := Category(raw)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", raw)
	}
	return c, nil
}

// Finding is a single issue reported by a review agent.
type Finding struct {
	Category     Category `json:"category"`
	Severity     Severity `json:"severity"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	FilePath     string   `json:"file_path,omitempty"`
	LineNumber   int      `json:"line_number,omitempty"`
	SuggestedFix string   `json:"suggested_fix,omitempty"`
	CodeSnippet  string   `json:"code_snippet,omitempty"`
	References   []string `json:"references,omitempty"`
}

// Blocking reports whether this finding alone should block a change.
func (f *Finding) Blocking() bool {
	return f.Severity == SeverityCritical || f.Severity == SeverityHigh
}
