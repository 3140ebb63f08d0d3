package api

import (
	"errors"
	"fmt"
)

type (
	// State is one phase in a machine's finite, cyclically ordered
	// progression
	State string

	// Name is a string identifier for record keys
	Name string

	// ValueType constrains the values a record may hold
	ValueType string

	// Key is the immutable descriptor of a single record slot. A Key
	// with an empty State is an init record and must be seeded before
	// the machine's first run; otherwise the record may only be written
	// while the machine occupies the named state
	Key struct {
		Name  Name      `json:"name"`
		Type  ValueType `json:"type,omitempty"`
		State State     `json:"state,omitempty"`
	}
)

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeObject  ValueType = "object"
	TypeArray   ValueType = "array"
	TypeAny     ValueType = "any"
)

var (
	ErrKeyNameEmpty     = errors.New("record key name empty")
	ErrInvalidValueType = errors.New("invalid value type")
)

var validValueTypes = map[ValueType]struct{}{
	TypeString:  {},
	TypeNumber:  {},
	TypeBoolean: {},
	TypeObject:  {},
	TypeArray:   {},
	TypeAny:     {},
}

// IsInit returns whether the key describes an init record, one with no
// dependency state
func (k *Key) IsInit() bool {
	return k.State == ""
}

// Validate checks the key descriptor for structural problems. An empty
// type is permitted and treated as TypeAny
func (k *Key) Validate() error {
	if k.Name == "" {
		return ErrKeyNameEmpty
	}
	if k.Type != "" {
		if _, ok := validValueTypes[k.Type]; !ok {
			return fmt.Errorf("%w: %s for record %q",
				ErrInvalidValueType, k.Type, k.Name)
		}
	}
	return nil
}
