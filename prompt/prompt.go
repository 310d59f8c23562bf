package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rosterhq/cogitator/roster"
)

//go:embed roster_analysis.yaml
var defaultTemplate []byte

// Template is the static part of a roster-analysis prompt.
type Template struct {
	System       string `yaml:"system"`
	Instructions string `yaml:"instructions"`
}

// Default returns the built-in template.
func Default() *Template {
	t, err := Parse(defaultTemplate)
	if err != nil {
		// The embedded file is part of the binary; failing here is a build bug.
		panic(err)
	}
	return t
}

// Load reads a template from a YAML file. An empty path returns the default.
func Load(path string) (*Template, error) {
	if path == "" {
		return Default(), nil
	}
	bts, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template: %w", err)
	}
	return Parse(bts)
}

func Parse(bts []byte) (*Template, error) {
	t := &Template{}
	if err := yaml.Unmarshal(bts, t); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	if strings.TrimSpace(t.Instructions) == "" {
		return nil, errors.New("prompt template has no instructions")
	}
	return t, nil
}

// Build renders the prompt for a roster.
func (t *Template) Build(r *roster.Roster) string {
	var sb strings.Builder
	if s := strings.TrimSpace(t.System); s != "" {
		sb.WriteString(s)
		sb.WriteString("\n\n")
	}
	sb.WriteString(strings.TrimSpace(t.Instructions))
	sb.WriteString("\n\nROSTER SUMMARY:\n")
	if r.Name != "" {
		fmt.Fprintf(&sb, "Name: %s\n", r.Name)
	}
	if r.Faction != "" {
		fmt.Fprintf(&sb, "Faction: %s\n", r.Faction)
	}
	fmt.Fprintf(&sb, "Points: %s\n", formatPoints(r.TotalPoints()))
	fmt.Fprintf(&sb, "Models: %d\n", r.ModelCount())
	if len(r.Units) == 0 {
		sb.WriteString("Units: none\n")
	} else {
		sb.WriteString("Units:\n")
		for _, u := range r.Units {
			fmt.Fprintf(&sb, "- %s x%d", u.Name, u.Count)
			if u.Points > 0 {
				fmt.Fprintf(&sb, " (%s pts)", formatPoints(u.Points))
			}
			if len(u.Keywords) > 0 {
				fmt.Fprintf(&sb, " [%s]", strings.Join(u.Keywords, ", "))
			}
			sb.WriteByte('\n')
		}
	}
	sb.WriteString("\nROSTER JSON:\n")
	sb.Write(r.Raw)
	sb.WriteByte('\n')
	return sb.String()
}

func formatPoints(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
