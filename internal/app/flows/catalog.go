package flows

import (
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed flows.yaml
var catalogYAML []byte

// Spec is one catalog entry.
type Spec struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Temperature float32 `yaml:"temperature"`
	System      string  `yaml:"system"`
	Prompt      string  `yaml:"prompt"`
}

type catalog struct {
	Flows []Spec `yaml:"flows"`
}

// LoadCatalog parses a catalog document and checks every prompt template.
func LoadCatalog(data []byte) (map[string]Spec, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse flow catalog: %w", err)
	}

	specs := make(map[string]Spec, len(c.Flows))
	for _, s := range c.Flows {
		if s.Name == "" {
			return nil, fmt.Errorf("flow catalog: entry without name")
		}
		if _, dup := specs[s.Name]; dup {
			return nil, fmt.Errorf("flow catalog: duplicate flow %q", s.Name)
		}
		if _, err := template.New(s.Name).Option("missingkey=error").Parse(s.Prompt); err != nil {
			return nil, fmt.Errorf("flow %s: %w", s.Name, err)
		}
		specs[s.Name] = s
	}
	return specs, nil
}

func defaultCatalog() (map[string]Spec, error) {
	return LoadCatalog(catalogYAML)
}
