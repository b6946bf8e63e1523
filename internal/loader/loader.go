package internalloader

import (
	"fmt"

	"github.com/leodido/treeconf/config"
	treeconferrors "github.com/leodido/treeconf/errors"
	"github.com/leodido/treeconf/values"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Parser turns the raw contents of a fragment into a generic tree rooted at a table.
type Parser func(data []byte) (map[string]any, error)

// Fragment is one discovered configuration file and the mapping parsed from it.
type Fragment struct {
	Path string
	Root *values.Node
}

// ParseTOML is the parser for TOML fragments.
func ParseTOML(data []byte) (map[string]any, error) {
	table := map[string]any{}
	if err := toml.Unmarshal(data, &table); err != nil {
		return nil, err
	}

	return table, nil
}

// ParseYAML is the parser for YAML fragments.
func ParseYAML(data []byte) (map[string]any, error) {
	table := map[string]any{}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}

	return table, nil
}

// ParserFor returns the parser for the given format.
func ParserFor(format config.Format) Parser {
	switch format {
	case config.FormatYAML:
		return ParseYAML
	default:
		return ParseTOML
	}
}

// Load reads the fragment at path, choosing the parser from its extension.
func Load(fs afero.Fs, path string) (*Fragment, error) {
	return LoadWith(fs, path, ParserFor(config.FormatOf(path)))
}

// LoadWith reads the fragment at path and converts it with the given parser.
// A nil parser is chosen from the extension of path.
//
// Read failures are IOError, syntax failures ParseError, unsupported value kinds TypeMismatchError.
func LoadWith(fs afero.Fs, path string, parse Parser) (*Fragment, error) {
	if parse == nil {
		parse = ParserFor(config.FormatOf(path))
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, treeconferrors.NewIOError(path, err)
	}

	table, err := parse(data)
	if err != nil {
		return nil, treeconferrors.NewParseError(path, err)
	}

	root, err := values.FromTable(path, table)
	if err != nil {
		return nil, fmt.Errorf("couldn't load %s: %w", path, err)
	}

	return &Fragment{Path: path, Root: root}, nil
}

// Extract loads the fragment at path with parse and returns its top-level entry named key.
//
// It reports a NotFoundError when the fragment does not define key, or the load error otherwise.
func Extract(fs afero.Fs, path, key string, parse Parser) (*values.Node, error) {
	frag, err := LoadWith(fs, path, parse)
	if err != nil {
		return nil, err
	}
	value, ok := frag.Root.Get(key)
	if !ok {
		return nil, treeconferrors.NewNotFoundError(key)
	}

	return value, nil
}
