package treeconf

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leodido/treeconf/values"
)

// Decode copies a resolved value into out, typically a pointer to a struct.
//
// Struct fields are matched on their `toml` tag (or their name, case-insensitively).
// Scalars are weakly typed so that "4" can populate an int field; extra hooks run after DecodeHooks.
func Decode(node *values.Node, out any, hooks ...mapstructure.DecodeHookFunc) error {
	if node == nil {
		return fmt.Errorf("couldn't decode a nil configuration value")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "toml",
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.ComposeDecodeHookFunc(append(DecodeHooks(), hooks...)...),
	})
	if err != nil {
		return fmt.Errorf("couldn't create the configuration decoder: %w", err)
	}
	if err := decoder.Decode(node.Interface()); err != nil {
		return fmt.Errorf("couldn't decode configuration value %s: %w", node, err)
	}

	return nil
}
