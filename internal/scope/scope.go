package internalscope

import (
	"context"
	"maps"
	"sync"

	"github.com/spf13/cobra"
	spf13viper "github.com/spf13/viper"
)

// treeconfContextKey is used to store scope in command context
type treeconfContextKey struct{}

// Scope holds per-command state: its viper instance and the flags already bound to environment variables
type Scope struct {
	owner     *cobra.Command
	v         *spf13viper.Viper
	boundEnvs map[string]bool
	mu        sync.RWMutex
}

// Get retrieves or creates a scope for the given command
func Get(c *cobra.Command) *Scope {
	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// A scope found in a context inherited from a parent belongs to the parent
	if s, ok := ctx.Value(treeconfContextKey{}).(*Scope); ok && s.owner == c {
		return s
	}

	s := &Scope{
		owner:     c,
		v:         spf13viper.New(),
		boundEnvs: make(map[string]bool),
	}
	c.SetContext(context.WithValue(ctx, treeconfContextKey{}, s))

	return s
}

// Viper returns the viper instance for the command
func (s *Scope) Viper() *spf13viper.Viper {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.v
}

// IsEnvBound checks if an environment variable is already bound for this command
func (s *Scope) IsEnvBound(flagName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.boundEnvs[flagName]
}

// SetBound marks an environment variable as bound for this command
func (s *Scope) SetBound(flagName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundEnvs[flagName] = true
}

// GetBoundEnvs is for testing purposes only
func (s *Scope) GetBoundEnvs() map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]bool, len(s.boundEnvs))
	maps.Copy(result, s.boundEnvs)

	return result
}
