package crew

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk crew definition. Operators can override the
// built-in personas with a YAML file; the routing rules themselves are
// not configurable.
type File struct {
	Coordinator PersonaConfig   `yaml:"coordinator"`
	Specialists []PersonaConfig `yaml:"specialists"`
}

type PersonaConfig struct {
	Name         string `yaml:"name"`
	DomainTerm   string `yaml:"domain_term,omitempty"`
	Instructions string `yaml:"instructions,omitempty"`
}

// LoadFile reads and validates a crew definition from a YAML file.
func LoadFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading crew file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing crew file %s: %w", path, err)
	}

	if err := file.validate(); err != nil {
		return nil, fmt.Errorf("crew file %s: %w", path, err)
	}
	return &file, nil
}

func (f *File) validate() error {
	if f.Coordinator.Name == "" {
		return fmt.Errorf("coordinator name is required")
	}

	seen := map[string]bool{f.Coordinator.Name: true}
	for _, sp := range f.Specialists {
		if sp.Name == "" {
			return fmt.Errorf("specialist name is required")
		}
		if sp.DomainTerm == "" {
			return fmt.Errorf("specialist %q: domain_term is required", sp.Name)
		}
		if seen[sp.Name] {
			return fmt.Errorf("duplicate participant name %q", sp.Name)
		}
		seen[sp.Name] = true
	}
	return nil
}

// Default returns the built-in crew: one coordinator plus the AWS and
// Azure specialists.
func Default() *File {
	return &File{
		Coordinator: PersonaConfig{
			Name:         CoordinatorName,
			Instructions: coordinatorInstructions,
		},
		Specialists: []PersonaConfig{
			{Name: AWSSpecialistName, DomainTerm: "aws", Instructions: awsInstructions},
			{Name: AzureSpecialistName, DomainTerm: "azure", Instructions: azureInstructions},
		},
	}
}
