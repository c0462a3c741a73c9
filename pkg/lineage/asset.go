package lineage

import "time"

// DataAsset is an auxiliary record describing a physical data asset. It is
// not itself a graph entity; callers typically fold Location into the
// metadata of the dataset node they register for it.
type DataAsset struct {
	Name      string         `json:"name" yaml:"name"`
	Location  string         `json:"location" yaml:"location"`
	Schema    map[string]any `json:"schema" yaml:"schema"`
	Tags      []string       `json:"tags" yaml:"tags"`
	CreatedAt time.Time      `json:"created_at" yaml:"created_at"`
}

// NewDataAsset constructs a DataAsset with CreatedAt set to now.
func NewDataAsset(name, location string, schema map[string]any, tags []string) *DataAsset {
	if schema == nil {
		schema = map[string]any{}
	}
	return &DataAsset{
		Name:      name,
		Location:  location,
		Schema:    schema,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}
}
