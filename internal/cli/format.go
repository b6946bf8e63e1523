package internalcli

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leodido/treeconf/values"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is the output format of the list command.
type Format int

const (
	FormatText Format = iota
	FormatTOML
	FormatYAML
	FormatJSON
)

// FormatIdentifiers maps each output format to its accepted names.
var FormatIdentifiers = map[Format][]string{
	FormatText: {"text"},
	FormatTOML: {"toml"},
	FormatYAML: {"yaml", "yml"},
	FormatJSON: {"json"},
}

func (f Format) String() string {
	if ids, ok := FormatIdentifiers[f]; ok {
		return ids[0]
	}

	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat returns the output format named s, ignoring case.
func ParseFormat(s string) (Format, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for f, ids := range FormatIdentifiers {
		for _, id := range ids {
			if id == needle {
				return f, nil
			}
		}
	}

	return FormatText, fmt.Errorf("invalid format '%s' (one of: %s)", s, strings.Join(identifiers(FormatIdentifiers), ", "))
}

// StringToFormatHookFunc converts format names into a Format.
func StringToFormatHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		if t != reflect.TypeOf(FormatText) {
			return data, nil
		}

		return ParseFormat(data.(string))
	}
}

// render writes node to w in the given format.
//
// The text format prints one line per leaf as a dotted key path; structured formats encode values only.
func render(w io.Writer, node *values.Node, format Format, showOrigin bool) error {
	switch format {
	case FormatText:
		return renderText(w, "", node, showOrigin)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(node.Interface())
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(node.Interface()); err != nil {
			return err
		}

		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(node)
	default:
		return fmt.Errorf("unsupported format %s", format)
	}
}

func renderText(w io.Writer, prefix string, node *values.Node, showOrigin bool) error {
	if node.Kind() == values.Mapping {
		for _, key := range node.Keys() {
			child, _ := node.Get(key)
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			if err := renderText(w, path, child, showOrigin); err != nil {
				return err
			}
		}

		return nil
	}

	text := node.Display()
	if showOrigin {
		text = node.String()
	}
	_, err := fmt.Fprintf(w, "%s = %s\n", prefix, text)

	return err
}
