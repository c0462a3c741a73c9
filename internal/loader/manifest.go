// Package loader reads lineage manifests from disk and registers their
// contents into a tracker.
//
// A manifest is a YAML document declaring datasets, models, artifacts,
// and transformations. Entries are registered in declaration order;
// transformations may reference input/output IDs declared later or not
// at all (tolerated by the graph, which treats unknown IDs as dead ends).
package loader

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/leaplineage/pkg/lineage"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk declaration of a lineage scope.
type Manifest struct {
	Datasets        []DatasetSpec        `yaml:"datasets"`
	Models          []ModelSpec          `yaml:"models"`
	Artifacts       []ArtifactSpec       `yaml:"artifacts"`
	Transformations []TransformationSpec `yaml:"transformations"`
}

// DatasetSpec declares a dataset node and its physical asset.
type DatasetSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Location string         `yaml:"location"`
	Schema   map[string]any `yaml:"schema"`
	Tags     []string       `yaml:"tags"`
	Metadata map[string]any `yaml:"metadata"`
}

// ModelSpec declares a model node.
type ModelSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Metadata map[string]any `yaml:"metadata"`
}

// ArtifactSpec declares an artifact node.
type ArtifactSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Metadata map[string]any `yaml:"metadata"`
}

// TransformationSpec declares a transformation node with its inputs and
// outputs by node ID.
type TransformationSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Inputs   []string       `yaml:"inputs"`
	Outputs  []string       `yaml:"outputs"`
	Metadata map[string]any `yaml:"metadata"`
}

// Parse decodes a manifest from YAML bytes and validates its structure.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadFile reads and parses a manifest file.
func LoadFile(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// validate rejects structurally invalid manifests. Only IDs are
// mandatory; semantic issues (e.g. a transformation input that is never
// declared) are deliberately not checked here.
func (m *Manifest) validate() error {
	for i, d := range m.Datasets {
		if d.ID == "" {
			return fmt.Errorf("datasets[%d]: id is required", i)
		}
	}
	for i, md := range m.Models {
		if md.ID == "" {
			return fmt.Errorf("models[%d]: id is required", i)
		}
	}
	for i, a := range m.Artifacts {
		if a.ID == "" {
			return fmt.Errorf("artifacts[%d]: id is required", i)
		}
	}
	for i, tr := range m.Transformations {
		if tr.ID == "" {
			return fmt.Errorf("transformations[%d]: id is required", i)
		}
	}
	return nil
}

// Apply registers the manifest's contents into the tracker in declaration
// order: datasets, models, artifacts, then transformations.
func (m *Manifest) Apply(tracker *lineage.Tracker) {
	for _, d := range m.Datasets {
		asset := lineage.NewDataAsset(orDefault(d.Name, d.ID), d.Location, d.Schema, d.Tags)
		md := map[string]any{}
		for k, v := range d.Metadata {
			md[k] = v
		}
		if len(asset.Schema) > 0 {
			md["schema"] = asset.Schema
		}
		if len(asset.Tags) > 0 {
			md["tags"] = asset.Tags
		}
		tracker.RegisterDataset(d.ID, asset.Name, asset.Location, md)
	}
	for _, spec := range m.Models {
		tracker.RegisterModel(spec.ID, orDefault(spec.Name, spec.ID), spec.Metadata)
	}
	for _, spec := range m.Artifacts {
		tracker.RegisterArtifact(spec.ID, orDefault(spec.Name, spec.ID), spec.Metadata)
	}
	for _, spec := range m.Transformations {
		tracker.RegisterTransformation(spec.ID, orDefault(spec.Name, spec.ID),
			spec.Inputs, spec.Outputs, spec.Metadata)
	}
}

// LoadTracker is a convenience wrapper: manifest file in, populated
// tracker out.
func LoadTracker(path string) (*lineage.Tracker, error) {
	m, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	tracker := lineage.NewTracker()
	m.Apply(tracker)
	return tracker, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
