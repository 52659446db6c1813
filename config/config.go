/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config

import (
	"log/slog"

	"dirpx.dev/modelreg/apis"
)

const (
	// DefaultSuggestionDistance represents the default for SuggestionDistance.
	// Zero selects the automatic threshold (see SuggestionThreshold).
	DefaultSuggestionDistance = 0
	// DefaultRelationSeparator represents the default for RelationSeparator.
	DefaultRelationSeparator = "__"
	// DefaultMaxRelationDepth represents the default for MaxRelationDepth.
	// Four hops should be sufficient for all practical purposes.
	DefaultMaxRelationDepth = 4
)

// DefaultExcludedSuffixes returns the default name suffixes left out of smart defaults.
func DefaultExcludedSuffixes() []string {
	return []string{"_ptr"}
}

// DefaultDiscriminatorNames returns the default internal discriminator names.
func DefaultDiscriminatorNames() []string {
	return []string{"polymorphic_ctype", "_type"}
}

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	// Ensure MaxRelationDepth and RelationSeparator are valid.
	if cfg.MaxRelationDepth <= 0 {
		cfg.MaxRelationDepth = DefaultMaxRelationDepth
	}
	if cfg.RelationSeparator == "" {
		cfg.RelationSeparator = DefaultRelationSeparator
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		SuggestionDistance: DefaultSuggestionDistance,
		RelationSeparator:  DefaultRelationSeparator,
		MaxRelationDepth:   DefaultMaxRelationDepth,
		ExcludedSuffixes:   DefaultExcludedSuffixes(),
		DiscriminatorNames: DefaultDiscriminatorNames(),
	}
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithSuggestionDistance sets the SuggestionDistance option.
// Zero means automatic, a negative value disables suggestions.
func WithSuggestionDistance(d int) Option {
	return func(c *apis.Config) {
		c.SuggestionDistance = d
	}
}

// WithRelationSeparator sets the RelationSeparator option.
// An empty separator resets to the default.
func WithRelationSeparator(sep string) Option {
	return func(c *apis.Config) {
		if sep == "" {
			sep = DefaultRelationSeparator
		}
		c.RelationSeparator = sep
	}
}

// WithMaxRelationDepth sets the MaxRelationDepth option.
// A non-positive value resets to the default.
func WithMaxRelationDepth(depth int) Option {
	return func(c *apis.Config) {
		if depth <= 0 {
			depth = DefaultMaxRelationDepth
		}
		c.MaxRelationDepth = depth
	}
}

// WithExcludedSuffixes replaces the ExcludedSuffixes option.
func WithExcludedSuffixes(suffixes ...string) Option {
	return func(c *apis.Config) {
		c.ExcludedSuffixes = append([]string(nil), suffixes...)
	}
}

// WithDiscriminatorNames replaces the DiscriminatorNames option.
func WithDiscriminatorNames(names ...string) Option {
	return func(c *apis.Config) {
		c.DiscriminatorNames = append([]string(nil), names...)
	}
}

// WithLogger sets the Logger option.
func WithLogger(l *slog.Logger) Option {
	return func(c *apis.Config) {
		c.Logger = l
	}
}

// Logger returns cfg.Logger, or a logger that discards everything.
func Logger(cfg apis.Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// SuggestionThreshold returns the maximum edit distance accepted for a
// suggestion for name under cfg. The automatic threshold is
// max(2, len(name)/3); a negative result means "never suggest".
func SuggestionThreshold(cfg apis.Config, name string) int {
	switch {
	case cfg.SuggestionDistance < 0:
		return -1
	case cfg.SuggestionDistance > 0:
		return cfg.SuggestionDistance
	}
	return max(2, len(name)/3)
}
