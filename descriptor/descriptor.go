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

// Package descriptor provides the concrete, read-only Entity Descriptor used
// by the registry: an identity plus an ordered list of fields.
//
// Descriptors are normally supplied by an external type system. This package
// offers two ways to build one:
//
//	post, err := descriptor.New(apis.Identity{Namespace: "blog", Name: "Post"},
//	    []*descriptor.Field{
//	        descriptor.ID(),
//	        descriptor.String("title"),
//	        descriptor.ForeignKey("author", apis.Identity{Namespace: "blog", Name: "Author"}),
//	        descriptor.DateTime("created_at").AutoManaged(),
//	    })
//
// or by reflecting over a Go struct with FromType (see reflect.go).
package descriptor

import (
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"dirpx.dev/modelreg/apis"
)

// Descriptor is an immutable apis.Descriptor.
type Descriptor struct {
	id          apis.Identity
	fields      []apis.FieldInfo
	index       map[string]int
	verbose     string
	plural      string
	description string
}

// Ensure Descriptor implements apis.Descriptor.
var _ apis.Descriptor = (*Descriptor)(nil)

// Option configures a Descriptor at construction.
type Option func(*Descriptor)

// WithVerboseName overrides the derived singular human name.
func WithVerboseName(name string) Option {
	return func(d *Descriptor) { d.verbose = name }
}

// WithVerboseNamePlural overrides the derived plural human name.
func WithVerboseNamePlural(name string) Option {
	return func(d *Descriptor) { d.plural = name }
}

// WithDescription sets a free-form description of the entity type.
func WithDescription(desc string) Option {
	return func(d *Descriptor) { d.description = desc }
}

// New builds a Descriptor. Field names must be non-empty and unique.
func New(id apis.Identity, fields []*Field, opts ...Option) (*Descriptor, error) {
	infos := make([]apis.FieldInfo, 0, len(fields))
	for _, f := range fields {
		if f == nil {
			continue
		}
		infos = append(infos, f.Info())
	}
	return FromInfos(id, infos, opts...)
}

// MustNew is like New but panics on error.
func MustNew(id apis.Identity, fields []*Field, opts ...Option) *Descriptor {
	d, err := New(id, fields, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// FromInfos builds a Descriptor from already assembled field infos.
func FromInfos(id apis.Identity, infos []apis.FieldInfo, opts ...Option) (*Descriptor, error) {
	if id.Namespace == "" || id.Name == "" {
		return nil, apis.NewConfigurationError(id, "identity", "namespace and name are required")
	}
	if strings.Contains(id.Namespace, apis.IdentifierSeparator) || strings.Contains(id.Name, apis.IdentifierSeparator) {
		return nil, apis.NewConfigurationError(id, "identity",
			fmt.Sprintf("namespace and name must not contain %q", apis.IdentifierSeparator))
	}
	d := &Descriptor{
		id:     id,
		fields: make([]apis.FieldInfo, 0, len(infos)),
		index:  make(map[string]int, len(infos)),
	}
	for _, info := range infos {
		if info.Name == "" {
			return nil, apis.NewConfigurationError(id, "fields", "field with empty name")
		}
		if _, dup := d.index[info.Name]; dup {
			return nil, apis.NewConfigurationError(id, "fields", fmt.Sprintf("duplicate field %q", info.Name))
		}
		if info.Kind == "" {
			return nil, apis.NewConfigurationError(id, "fields", fmt.Sprintf("field %q has no kind", info.Name))
		}
		if info.VerboseName == "" {
			info.VerboseName = Humanize(info.Name)
		}
		info.Choices = append([]string(nil), info.Choices...)
		if info.RelationTarget != nil {
			target := *info.RelationTarget
			info.RelationTarget = &target
		}
		d.index[info.Name] = len(d.fields)
		d.fields = append(d.fields, info)
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.verbose == "" {
		d.verbose = Humanize(id.Name)
	}
	if d.plural == "" {
		d.plural = inflect.Pluralize(d.verbose)
	}
	return d, nil
}

// Identity returns the stable type handle.
func (d *Descriptor) Identity() apis.Identity { return d.id }

// Fields returns a copy of all fields in declaration order.
func (d *Descriptor) Fields() []apis.FieldInfo {
	out := make([]apis.FieldInfo, len(d.fields))
	copy(out, d.fields)
	for i := range out {
		out[i].Choices = append([]string(nil), out[i].Choices...)
	}
	return out
}

// Field returns the field with the given exact name.
func (d *Descriptor) Field(name string) (apis.FieldInfo, bool) {
	i, ok := d.index[name]
	if !ok {
		return apis.FieldInfo{}, false
	}
	return d.fields[i], true
}

// VerboseName returns the singular human name.
func (d *Descriptor) VerboseName() string { return d.verbose }

// VerboseNamePlural returns the plural human name.
func (d *Descriptor) VerboseNamePlural() string { return d.plural }

// Description returns the description given at construction, if any.
func (d *Descriptor) Description() string { return d.description }

// String implements fmt.Stringer.
func (d *Descriptor) String() string { return d.id.String() }

// Humanize turns an identifier ("BlogPost", "created_at") into a lower-case
// phrase ("blog post", "created at").
func Humanize(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(inflect.Underscore(name)), "_", " "))
}
