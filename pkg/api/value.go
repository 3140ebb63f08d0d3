package api

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/tidwall/gjson"
)

var (
	ErrTypeMismatch = errors.New("value type mismatch")
	ErrInvalidJSON  = errors.New("value must be valid JSON")
)

// CheckValue verifies a runtime value against a declared value type. An
// empty type and TypeAny admit every non-nil value; TypeNumber admits
// all Go integer and float kinds
func CheckValue(value any, t ValueType) error {
	switch t {
	case "", TypeAny:
		return nil

	case TypeString:
		if _, ok := value.(string); ok {
			return nil
		}

	case TypeNumber:
		switch value.(type) {
		case int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64,
			float32, float64:
			return nil
		}

	case TypeBoolean:
		if _, ok := value.(bool); ok {
			return nil
		}

	case TypeObject:
		if reflect.ValueOf(value).Kind() == reflect.Map {
			return nil
		}

	case TypeArray:
		switch reflect.ValueOf(value).Kind() {
		case reflect.Slice, reflect.Array:
			return nil
		}
	}

	return fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, t, value)
}

// CheckJSON verifies a raw JSON value against a declared value type
// without unmarshaling it
func CheckJSON(raw string, t ValueType) error {
	if !gjson.Valid(raw) {
		return ErrInvalidJSON
	}

	if t == "" || t == TypeAny {
		return nil
	}

	result := gjson.Parse(raw)

	switch t {
	case TypeString:
		if result.Type == gjson.String {
			return nil
		}

	case TypeNumber:
		if result.Type == gjson.Number {
			return nil
		}

	case TypeBoolean:
		if result.Type == gjson.True || result.Type == gjson.False {
			return nil
		}

	case TypeObject:
		if result.IsObject() {
			return nil
		}

	case TypeArray:
		if result.IsArray() {
			return nil
		}
	}

	return fmt.Errorf("%w: expected %s, got %s",
		ErrTypeMismatch, t, result.Type)
}
