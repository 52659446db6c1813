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

package model

import (
	"fmt"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/factory"
)

// Option configures a Configuration during New.
type Option func(*Configuration) error

// WithFields sets the shared field list from plain names.
func WithFields(names ...string) Option {
	return WithFieldList(apis.Fields(names...))
}

// WithFieldList sets the shared field list, which may contain groups.
func WithFieldList(list apis.FieldList) Option {
	return func(c *Configuration) error {
		if err := checkList(c, "fields", list); err != nil {
			return err
		}
		c.shared = list.Clone()
		return nil
	}
}

// WithExclude removes names from the smart-default field list.
func WithExclude(names ...string) Option {
	return func(c *Configuration) error {
		for _, n := range names {
			if n == "" {
				return apis.NewConfigurationError(c.identity(), "exclude", "empty field name")
			}
			c.excluded[n] = struct{}{}
		}
		return nil
	}
}

// WithSurfaceFields sets the override list of one surface from plain names.
// An empty list is still an override: the surface resolves to no fields.
func WithSurfaceFields(s apis.Surface, names ...string) Option {
	return WithSurfaceFieldList(s, apis.Fields(names...))
}

// WithSurfaceFieldList sets the override list of one surface.
func WithSurfaceFieldList(s apis.Surface, list apis.FieldList) Option {
	return func(c *Configuration) error {
		if !s.Valid() {
			return apis.NewConfigurationError(c.identity(), "surface fields", fmt.Sprintf("unknown surface %q", s))
		}
		if err := checkList(c, string(s)+" fields", list); err != nil {
			return err
		}
		if list == nil {
			list = apis.FieldList{}
		}
		c.overrides[s] = list.Clone()
		return nil
	}
}

// WithCustom replaces the generated artifact of s with art. art must be the
// artifact type the factory of s produces (e.g. *factory.Form for the form
// surface) and must report s as its surface.
func WithCustom(s apis.Surface, art apis.Artifact) Option {
	return func(c *Configuration) error {
		if !s.Valid() {
			return apis.NewConfigurationError(c.identity(), "custom", fmt.Sprintf("unknown surface %q", s))
		}
		if art == nil {
			return apis.NewConfigurationError(c.identity(), "custom", fmt.Sprintf("nil artifact for %s", s))
		}
		if !artifactFits(s, art) {
			return apis.NewConfigurationError(c.identity(), "custom",
				fmt.Sprintf("%T is not a %s artifact", art, s))
		}
		if art.Surface() != s {
			return apis.NewConfigurationError(c.identity(), "custom",
				fmt.Sprintf("artifact reports surface %s, want %s", art.Surface(), s))
		}
		c.custom[s] = art
		return nil
	}
}

// WithDisplayName sets the human display name.
func WithDisplayName(name string) Option {
	return func(c *Configuration) error {
		c.displayName = name
		return nil
	}
}

// WithDescription sets the description.
func WithDescription(desc string) Option {
	return func(c *Configuration) error {
		c.description = desc
		return nil
	}
}

// WithMetadata attaches descriptive metadata. It is validated immediately.
func WithMetadata(m Metadata) Option {
	return func(c *Configuration) error {
		if err := m.Validate(); err != nil {
			return apis.NewConfigurationError(c.identity(), "metadata", err.Error())
		}
		c.metadata = m.clone()
		return nil
	}
}

// checkList rejects empty names and empty groups. Whether the names exist
// on the entity is checked lazily by the resolver.
func checkList(c *Configuration, option string, list apis.FieldList) error {
	for _, e := range list {
		names := e.Names()
		if e.IsGroup() && len(names) == 0 {
			return apis.NewConfigurationError(c.identity(), option, "empty field group")
		}
		for _, n := range names {
			if n == "" {
				return apis.NewConfigurationError(c.identity(), option, "empty field name")
			}
		}
	}
	return nil
}

func artifactFits(s apis.Surface, art apis.Artifact) bool {
	var ok bool
	switch s {
	case apis.SurfaceForm:
		_, ok = art.(*factory.Form)
	case apis.SurfaceTable:
		_, ok = art.(*factory.Table)
	case apis.SurfaceFilter:
		_, ok = art.(*factory.Filter)
	case apis.SurfaceSerializer:
		_, ok = art.(*factory.Serializer)
	case apis.SurfaceResource:
		_, ok = art.(*factory.Resource)
	case apis.SurfaceAdmin:
		_, ok = art.(*factory.Admin)
	}
	return ok
}
