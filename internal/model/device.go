package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Device is a read-only device record owned by the external store
type Device struct {
	Slug        string   `json:"slug" yaml:"slug"`                                       // Immutable, unique within its category
	Name        string   `json:"model_name" yaml:"model_name"`                           // Display name
	Category    Category `json:"category" yaml:"category"`                               // Explicit kind tag
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"` // As published ("2024-09-20", "Sep 2024")
	Specs       Specs    `json:"specs,omitempty" yaml:"specs,omitempty"`               // Variant matching Category
}

// deviceEnvelope is Device with specs left undecoded until the category is known
type deviceEnvelope struct {
	Slug        string          `json:"slug"`
	Name        string          `json:"model_name"`
	Category    string          `json:"category"`
	ReleaseDate string          `json:"release_date"`
	Specs       json.RawMessage `json:"specs"`
}

// UnmarshalJSON decodes specs into the variant named by the category tag
func (d *Device) UnmarshalJSON(data []byte) error {
	var env deviceEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	cat, err := ParseCategory(env.Category)
	if err != nil {
		return fmt.Errorf("device %q: %w", env.Slug, err)
	}
	specs, err := NewSpecs(cat)
	if err != nil {
		return err
	}
	if len(env.Specs) > 0 && string(env.Specs) != "null" {
		if err := json.Unmarshal(env.Specs, specs); err != nil {
			return fmt.Errorf("device %q: decode specs: %w", env.Slug, err)
		}
	}

	*d = Device{
		Slug:        env.Slug,
		Name:        env.Name,
		Category:    cat,
		ReleaseDate: env.ReleaseDate,
		Specs:       specs,
	}
	return nil
}

// UnmarshalYAML decodes specs into the variant named by the category tag
func (d *Device) UnmarshalYAML(node *yaml.Node) error {
	var env struct {
		Slug        string    `yaml:"slug"`
		Name        string    `yaml:"model_name"`
		Category    string    `yaml:"category"`
		ReleaseDate string    `yaml:"release_date"`
		Specs       yaml.Node `yaml:"specs"`
	}
	if err := node.Decode(&env); err != nil {
		return err
	}

	cat, err := ParseCategory(env.Category)
	if err != nil {
		return fmt.Errorf("line %d: device %q: %w", node.Line, env.Slug, err)
	}
	specs, err := NewSpecs(cat)
	if err != nil {
		return err
	}
	if env.Specs.Kind != 0 {
		if err := env.Specs.Decode(specs); err != nil {
			return fmt.Errorf("line %d: device %q: decode specs: %w", node.Line, env.Slug, err)
		}
	}

	*d = Device{
		Slug:        env.Slug,
		Name:        env.Name,
		Category:    cat,
		ReleaseDate: env.ReleaseDate,
		Specs:       specs,
	}
	return nil
}

// DisplayName falls back to the slug when the record has no name
func (d Device) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Slug
}
