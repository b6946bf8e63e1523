package config

import (
	"path/filepath"
	"strings"
)

// Format identifies the text format of a configuration fragment.
type Format int

const (
	// FormatTOML parses fragments as TOML.
	FormatTOML Format = iota
	// FormatYAML parses fragments as YAML.
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

const (
	// DefaultDir is the hidden directory probed in every ancestor.
	DefaultDir = ".treeconf"
	// DefaultName is the fragment file name inside DefaultDir.
	DefaultName = "config.toml"
)

// Options defines the discovery convention: one fragment per directory at Dir/Name.
type Options struct {
	Dir  string // Hidden directory name (defaults to ".treeconf")
	Name string // Fragment file name (defaults to "config.toml")
}

// Subpath returns the fixed path, relative to every ancestor, at which a fragment is looked up.
func (o Options) Subpath() string {
	dir := o.Dir
	if dir == "" {
		dir = DefaultDir
	}
	name := o.Name
	if name == "" {
		name = DefaultName
	}

	return filepath.Join(dir, name)
}

// FormatOf infers the fragment format from the file extension.
//
// Files without a recognized extension are treated as TOML.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}
