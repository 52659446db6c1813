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

// Package model holds Configuration, the per-entity declaration of which
// fields each generated surface shows, and the lazily built, cached
// artifacts derived from it.
//
// A Configuration is immutable once New returns. Artifacts are built on
// first access, at most once per surface even under concurrent first
// access, and served lock-free afterwards:
//
//	cfg, err := model.New(postDescriptor,
//	    model.WithFields("title", "author", "published_at"),
//	    model.WithSurfaceFields(apis.SurfaceTable, "title", "author__name"),
//	)
//	form, err := cfg.Form()
package model

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/config"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/kinds"
	"dirpx.dev/modelreg/resolver"
)

// Configuration is the declarative record of one entity type.
type Configuration struct {
	entity      apis.Descriptor
	shared      apis.FieldList
	excluded    map[string]struct{}
	overrides   map[apis.Surface]apis.FieldList
	custom      map[apis.Surface]apis.Artifact
	displayName string
	description string
	metadata    *Metadata

	// bound is the resolver/factory pair in use; nil means the defaults.
	bound atomic.Pointer[binding]
	// cells is swapped wholesale by ClearCache and Bind.
	cells atomic.Pointer[cellSet]
}

// binding is what a registry attaches to a Configuration on registration.
type binding struct {
	res  apis.Resolver
	facs apis.FactorySet
	log  *slog.Logger
}

// Ensure Configuration can be resolved.
var _ apis.Source = (*Configuration)(nil)

// New builds a Configuration for entity. Field names are not checked here;
// they are validated on first access to each surface.
func New(entity apis.Descriptor, opts ...Option) (*Configuration, error) {
	if entity == nil {
		return nil, apis.NewConfigurationError(apis.Identity{}, "entity", "entity descriptor is required")
	}
	c := &Configuration{
		entity:    entity,
		excluded:  make(map[string]struct{}),
		overrides: make(map[apis.Surface]apis.FieldList),
		custom:    make(map[apis.Surface]apis.Artifact),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	for s := range c.custom {
		if _, ok := c.overrides[s]; ok {
			return nil, apis.NewConfigurationError(c.identity(), "custom",
				fmt.Sprintf("%s has both a field override and a custom artifact", s))
		}
	}
	c.cells.Store(newCellSet())
	return c, nil
}

// MustNew is like New but panics on error.
func MustNew(entity apis.Descriptor, opts ...Option) *Configuration {
	c, err := New(entity, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Bind attaches the resolver and factories used to build artifacts and
// drops anything cached. Registries call it on registration; nil arguments
// keep the defaults.
func (c *Configuration) Bind(res apis.Resolver, facs apis.FactorySet, log *slog.Logger) {
	c.bound.Store(&binding{res: res, facs: facs, log: log})
	c.ClearCache()
}

// current returns the active binding with defaults filled in.
func (c *Configuration) current() binding {
	b := binding{}
	if p := c.bound.Load(); p != nil {
		b = *p
	}
	if b.res == nil {
		b.res = resolver.NewDefault(config.DefaultConfig(), nil)
	}
	if b.facs == nil {
		b.facs = factory.Defaults(kinds.Default())
	}
	if b.log == nil {
		b.log = config.Logger(apis.Config{})
	}
	return b
}

// Entity returns the descriptor the Configuration is bound to.
func (c *Configuration) Entity() apis.Descriptor { return c.entity }

// Identity returns the entity's identity.
func (c *Configuration) Identity() apis.Identity { return c.entity.Identity() }

func (c *Configuration) identity() apis.Identity {
	if c.entity == nil {
		return apis.Identity{}
	}
	return c.entity.Identity()
}

// SharedFields returns a copy of the shared field list.
func (c *Configuration) SharedFields() apis.FieldList { return c.shared.Clone() }

// IsExcluded reports whether name was excluded from smart defaults.
func (c *Configuration) IsExcluded(name string) bool {
	_, ok := c.excluded[name]
	return ok
}

// Excluded returns the excluded names, sorted.
func (c *Configuration) Excluded() []string {
	out := make([]string, 0, len(c.excluded))
	for n := range c.excluded {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// SurfaceFields returns the override list of s, if any.
func (c *Configuration) SurfaceFields(s apis.Surface) (apis.FieldList, bool) {
	fl, ok := c.overrides[s]
	if !ok {
		return nil, false
	}
	return fl.Clone(), true
}

// HasOverride reports whether s has its own field list.
func (c *Configuration) HasOverride(s apis.Surface) bool {
	_, ok := c.overrides[s]
	return ok
}

// HasCustom reports whether s uses a caller-supplied artifact.
func (c *Configuration) HasCustom(s apis.Surface) bool {
	_, ok := c.custom[s]
	return ok
}

// DisplayName returns the configured display name, or the title-cased
// verbose name of the entity.
func (c *Configuration) DisplayName() string {
	if c.displayName != "" {
		return c.displayName
	}
	return cases.Title(language.Und, cases.NoLower).String(c.VerboseName())
}

// Slug returns a URL-safe form of the entity name ("BlogPost" becomes "blog-post").
func (c *Configuration) Slug() string {
	s := strings.ToLower(inflect.Underscore(c.entity.Identity().Name))
	return strings.Trim(strings.ReplaceAll(s, "_", "-"), "-")
}

// VerboseName returns the entity's singular human name.
func (c *Configuration) VerboseName() string { return c.entity.VerboseName() }

// VerboseNamePlural returns the entity's plural human name.
func (c *Configuration) VerboseNamePlural() string { return c.entity.VerboseNamePlural() }

// Description returns the configured description, or the entity's own
// description when none was configured.
func (c *Configuration) Description() string {
	if c.description != "" {
		return c.description
	}
	if d, ok := c.entity.(interface{ Description() string }); ok {
		return d.Description()
	}
	return ""
}

// Metadata returns a copy of the metadata, or nil.
func (c *Configuration) Metadata() *Metadata { return c.metadata.clone() }

// Fields resolves s without building its artifact.
func (c *Configuration) Fields(s apis.Surface) (apis.Resolution, error) {
	return c.current().res.Resolve(c, s)
}

// Validate resolves every generated surface and reports all failures.
func (c *Configuration) Validate() error {
	var errs []error
	for _, s := range apis.Surfaces() {
		if c.HasCustom(s) {
			continue
		}
		if _, err := c.Fields(s); err != nil {
			errs = append(errs, err)
		}
	}
	return apis.NewAggregateError(errs...)
}

// String implements fmt.Stringer.
func (c *Configuration) String() string {
	return "modelreg.Configuration(" + c.identity().String() + ")"
}
