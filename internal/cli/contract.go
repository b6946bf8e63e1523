package internalcli

import (
	"context"

	"github.com/spf13/cobra"
)

// Options represents a struct that defines command-line flags and environment variables.
type Options interface {
	Attach(*cobra.Command) error
}

// ValidatableOptions extends Options with validation capabilities.
//
// The Validate method is called automatically during Unmarshal(), after Transform.
type ValidatableOptions interface {
	Validate(context.Context) []error
}

// TransformableOptions extends Options with transformation capabilities.
//
// The Transform method is called automatically during Unmarshal() before validation.
type TransformableOptions interface {
	Transform(context.Context) error
}

// ContextOptions extends Options with context propagation capabilities.
type ContextOptions interface {
	Options
	Context(context.Context) context.Context
	FromContext(context.Context) error
}
