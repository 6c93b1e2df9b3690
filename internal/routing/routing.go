// Package routing holds the admin-configurable set of base paths under
// which slugs are served.
package routing

import (
	"sync/atomic"

	"github.com/serroba/golinks/internal/slug"
)

// Config is an immutable snapshot of the ordered base-path set. The
// first entry is the primary path, used whenever no base path is
// specified. A Config always holds at least one entry.
type Config struct {
	paths []string
}

// NewConfig builds a snapshot from an already-normalized path list.
// An empty list falls back to the default base path.
func NewConfig(paths []string) *Config {
	if len(paths) == 0 {
		paths = []string{slug.DefaultBasePath}
	}

	cp := make([]string, len(paths))
	copy(cp, paths)

	return &Config{paths: cp}
}

// Primary returns the first configured base path.
func (c *Config) Primary() string {
	return c.paths[0]
}

// Contains reports whether p is one of the configured base paths.
func (c *Config) Contains(p string) bool {
	for _, path := range c.paths {
		if path == p {
			return true
		}
	}

	return false
}

// Paths returns a copy of the ordered base-path set.
func (c *Config) Paths() []string {
	cp := make([]string, len(c.paths))
	copy(cp, c.paths)

	return cp
}

// Provider publishes Config snapshots to concurrent readers. Updates
// swap the whole pointer, so readers never observe a partially
// updated set and take no locks.
type Provider struct {
	current atomic.Pointer[Config]
}

// NewProvider creates a provider seeded with the given snapshot.
func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)

	return p
}

// Current returns the latest published snapshot.
func (p *Provider) Current() *Config {
	return p.current.Load()
}

// Swap publishes a new snapshot.
func (p *Provider) Swap(cfg *Config) {
	p.current.Store(cfg)
}
