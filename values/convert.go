package values

import (
	"fmt"
	"reflect"
	"time"

	treeconferrors "github.com/leodido/treeconf/errors"
	toml "github.com/pelletier/go-toml/v2"
)

// FromAny converts the generic tree produced by a format parser into a Node.
//
// Strings become scalars, arrays of strings become sequences, string-keyed tables become mappings.
// Every other kind (numbers, booleans, datetimes, nulls, mixed arrays) fails with a TypeMismatchError naming path.
// Each produced node has path as its only provenance entry.
func FromAny(path string, data any) (*Node, error) {
	return fromAny(path, data, "")
}

// FromTable converts a parsed top-level table into a Mapping node.
func FromTable(path string, table map[string]any) (*Node, error) {
	return fromAny(path, table, "")
}

func fromAny(path string, data any, keyPath string) (*Node, error) {
	switch v := data.(type) {
	case string:
		return NewScalar(v, path), nil
	case []string:
		return NewSequence(v, path), nil
	case []any:
		items := make([]string, 0, len(v))
		for i, elem := range v {
			s, ok := elem.(string)
			if !ok {
				return nil, treeconferrors.NewTypeMismatchError(Scalar.String(), describe(elem), fmt.Sprintf("%s[%d]", keyPath, i), path)
			}
			items = append(items, s)
		}

		return NewSequence(items, path), nil
	case map[string]any:
		entries := make(map[string]*Node, len(v))
		for key, value := range v {
			child, err := fromAny(path, value, joinKey(keyPath, key))
			if err != nil {
				return nil, err
			}
			entries[key] = child
		}

		return NewMapping(entries, path), nil
	case map[any]any:
		entries := make(map[string]*Node, len(v))
		for rawKey, value := range v {
			key, ok := rawKey.(string)
			if !ok {
				return nil, treeconferrors.NewTypeMismatchError(Scalar.String(), describe(rawKey), joinKey(keyPath, fmt.Sprint(rawKey)), path)
			}
			child, err := fromAny(path, value, joinKey(keyPath, key))
			if err != nil {
				return nil, err
			}
			entries[key] = child
		}

		return NewMapping(entries, path), nil
	default:
		return nil, treeconferrors.NewTypeMismatchError("string, array, or table", describe(data), keyPath, path)
	}
}

// describe names the kind of a rejected value the way the fragment format would.
func describe(data any) string {
	switch data.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case time.Time, toml.LocalDate, toml.LocalTime, toml.LocalDateTime:
		return "datetime"
	case []any, []string:
		return Sequence.String()
	case map[string]any, map[any]any:
		return Mapping.String()
	}

	switch reflect.TypeOf(data).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "float"
	default:
		return fmt.Sprintf("%T", data)
	}
}
