package alloc

import (
	"io"
	"log/slog"

	"github.com/joshuapare/heapkit/internal/osmem"
)

// Option configures a Region or Pool.
type Option func(*config)

type config struct {
	source osmem.Source
	policy FreePolicy
	logger *slog.Logger
}

// WithSource overrides where the backing buffer comes from.
func WithSource(src osmem.Source) Option {
	return func(c *config) { c.source = src }
}

// WithFreePolicy overrides the heap's free policy.
func WithFreePolicy(p FreePolicy) Option {
	return func(c *config) { c.policy = p }
}

// WithLogger installs a logger for debug traces and rejected-free diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func buildConfig(src osmem.Source, policy FreePolicy, opts []Option) config {
	c := config{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.source == nil {
		c.source = src
	}
	if c.policy == policyDefault {
		c.policy = policy
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
