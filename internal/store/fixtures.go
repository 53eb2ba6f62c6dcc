package store

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/specmatrix/internal/model"
)

//go:embed sample.yaml
var sampleYAML []byte

// fixtureFile is the YAML import format
type fixtureFile struct {
	Devices []model.Device `yaml:"devices"`
}

// DecodeFixtures reads a `devices:` YAML document
func DecodeFixtures(r io.Reader) ([]model.Device, error) {
	var f fixtureFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}

	seen := make(map[string]bool)
	for _, d := range f.Devices {
		if err := validate(d); err != nil {
			return nil, err
		}
		id := string(d.Category) + "/" + d.Slug
		if seen[id] {
			return nil, fmt.Errorf("duplicate device %s", id)
		}
		seen[id] = true
	}
	return f.Devices, nil
}

// LoadFixtureFile reads fixtures from path
func LoadFixtureFile(path string) ([]model.Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()

	return DecodeFixtures(f)
}

// SampleDevices returns the bundled sample dataset
func SampleDevices() ([]model.Device, error) {
	return DecodeFixtures(bytes.NewReader(sampleYAML))
}
