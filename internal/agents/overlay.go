package agents

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sethjchalmers/code-whisperers/internal/core"
)

// Overlay is the on-disk customization of the built-in agent set. It can
// tune existing agents by name and declare entirely new ones.
type Overlay struct {
	Agents []OverlayAgent `yaml:"agents"`
}

// OverlayAgent tunes one agent. For a name that matches a built-in agent the
// non-zero fields override the built-in descriptor; an unknown name defines
// a custom agent, which then requires a system prompt and file patterns.
type OverlayAgent struct {
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	SystemPrompt string   `yaml:"system_prompt"`
	FilePatterns []string `yaml:"file_patterns"`
	Priority     *int     `yaml:"priority"`
	Enabled      *bool    `yaml:"enabled"`
	Model        string   `yaml:"model"`
	Temperature  *float64 `yaml:"temperature"`
}

// LoadOverlay reads an overlay file. A missing file is not an error; the
// built-in set is used unchanged.
func LoadOverlay(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Overlay{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading agent overlay: %w", err)
	}

	var overlay Overlay
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, core.ErrValidation("BAD_AGENT_OVERLAY",
			fmt.Sprintf("parsing %s: %v", path, err))
	}
	return &overlay, nil
}

// Apply merges the overlay into the descriptor set and returns the result
// re-sorted by priority.
func (o *Overlay) Apply(descriptors []core.AgentDescriptor) ([]core.AgentDescriptor, error) {
	byName := make(map[string]int, len(descriptors))
	out := make([]core.AgentDescriptor, len(descriptors))
	copy(out, descriptors)
	for i, d := range out {
		byName[d.Name] = i
	}

	for _, entry := range o.Agents {
		if entry.Name == "" {
			return nil, core.ErrValidation("BAD_AGENT_OVERLAY", "overlay agent without a name")
		}

		if i, ok := byName[entry.Name]; ok {
			d := &out[i]
			if entry.Description != "" {
				d.Description = entry.Description
			}
			if entry.SystemPrompt != "" {
				d.SystemPrompt = entry.SystemPrompt
			}
			if len(entry.FilePatterns) > 0 {
				d.FilePatterns = entry.FilePatterns
			}
			if entry.Priority != nil {
				d.Priority = *entry.Priority
			}
			if entry.Enabled != nil {
				d.Enabled = *entry.Enabled
			}
			if entry.Model != "" {
				d.ModelOverride = entry.Model
			}
			if entry.Temperature != nil {
				d.TemperatureOverride = entry.Temperature
			}
			continue
		}

		if entry.SystemPrompt == "" || len(entry.FilePatterns) == 0 {
			return nil, core.ErrValidation("BAD_AGENT_OVERLAY",
				fmt.Sprintf("custom agent %q needs system_prompt and file_patterns", entry.Name))
		}
		custom := core.AgentDescriptor{
			Name:                entry.Name,
			Description:         entry.Description,
			SystemPrompt:        entry.SystemPrompt,
			FilePatterns:        entry.FilePatterns,
			Priority:            1,
			Enabled:             true,
			ModelOverride:       entry.Model,
			TemperatureOverride: entry.Temperature,
		}
		if entry.Priority != nil {
			custom.Priority = *entry.Priority
		}
		if entry.Enabled != nil {
			custom.Enabled = *entry.Enabled
		}
		byName[custom.Name] = len(out)
		out = append(out, custom)
	}

	sortByPriority(out)
	return out, nil
}
