package agents

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// Select narrows the descriptor set to the requested agent names. Names match
// the descriptor name with or without the "_expert" suffix, case-insensitive;
// anything that does not match exactly falls back to fuzzy matching so
// "terra" still finds terraform_expert. An empty request, or one that matches
// nothing at all, keeps the full set.
func Select(descriptors []core.AgentDescriptor, names []string) []core.AgentDescriptor {
	if len(names) == 0 {
		return descriptors
	}

	shortNames := make([]string, len(descriptors))
	for i, d := range descriptors {
		shortNames[i] = strings.TrimSuffix(strings.ToLower(d.Name), "_expert")
	}

	wanted := make(map[int]bool)
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}

		matched := false
		for i, d := range descriptors {
			if name == strings.ToLower(d.Name) || name == shortNames[i] {
				wanted[i] = true
				matched = true
			}
		}
		if matched {
			continue
		}

		for _, m := range fuzzy.Find(name, shortNames) {
			wanted[m.Index] = true
		}
	}

	if len(wanted) == 0 {
		return descriptors
	}

	selected := make([]core.AgentDescriptor, 0, len(wanted))
	for i, d := range descriptors {
		if wanted[i] {
			selected = append(selected, d)
		}
	}
	return selected
}

// Enabled filters out descriptors disabled by configuration.
func Enabled(descriptors []core.AgentDescriptor) []core.AgentDescriptor {
	out := make([]core.AgentDescriptor, 0, len(descriptors))
	for _, d := range descriptors {
		if d.Enabled {
			out = append(out, d)
		}
	}
	return out
}
