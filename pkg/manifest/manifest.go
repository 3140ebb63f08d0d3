// Package manifest loads declarative schema documents
//
// A manifest names a machine kind's states and record keys in YAML and
// produces a Registry with both pre-registered. Operations are code and
// still bind through the Registry directly
package manifest

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/kode4food/ratchet/pkg/api"
	"github.com/kode4food/ratchet/pkg/machine"
)

type (
	// Document is the YAML form of a machine kind's declaration
	Document struct {
		Name    string        `yaml:"name"`
		States  []api.State   `yaml:"states"`
		Records []*RecordSpec `yaml:"records"`
	}

	// RecordSpec declares one record key. An absent state marks an init
	// record
	RecordSpec struct {
		Key   api.Name      `yaml:"key"`
		Type  api.ValueType `yaml:"type,omitempty"`
		State api.State     `yaml:"state,omitempty"`
	}
)

var ErrInvalidManifest = errors.New("invalid manifest document")

// Parse decodes a YAML manifest document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return &doc, nil
}

// Registry builds a Registry with the document's states and record keys
// registered, ready for operation binding
func (d *Document) Registry() (*machine.Registry, error) {
	reg, err := machine.NewRegistry(d.States...)
	if err != nil {
		return nil, err
	}
	for _, rs := range d.Records {
		key := &api.Key{Name: rs.Key, Type: rs.Type, State: rs.State}
		if err := reg.RegisterKey(key); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Load parses a manifest document and returns its pre-populated
// Registry
func Load(data []byte) (*machine.Registry, error) {
	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return doc.Registry()
}
