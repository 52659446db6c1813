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

// Package loader reads entity descriptors and model configurations from
// YAML documents.
//
// A document has two optional sections:
//
//	entities:
//	  - id: auth.User
//	    fields:
//	      - {name: id, kind: int, pk: true}
//	      - {name: name, kind: string}
//	models:
//	  - entity: auth.User
//	    fields: [name, [email, phone]]
//	    surfaces:
//	      table: [name]
//
// A field-list item is either a name or a nested list, which declares a
// group. Every model remembers the file and line it was declared on; that
// location is used as its registration site.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sort"

	"gopkg.in/yaml.v3"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/model"
	"dirpx.dev/modelreg/universe"
)

// Document is one YAML document.
type Document struct {
	Entities []Entity `yaml:"entities"`
	Models   []Model  `yaml:"models"`
}

// Entity declares one entity type.
type Entity struct {
	ID                string  `yaml:"id"`
	VerboseName       string  `yaml:"verbose_name"`
	VerboseNamePlural string  `yaml:"verbose_name_plural"`
	Description       string  `yaml:"description"`
	Fields            []Field `yaml:"fields"`

	line int
}

// Field declares one field of an entity.
type Field struct {
	Name        string   `yaml:"name"`
	Kind        string   `yaml:"kind"`
	Null        bool     `yaml:"null"`
	ReadOnly    bool     `yaml:"readonly"`
	PK          bool     `yaml:"pk"`
	Auto        bool     `yaml:"auto"`
	Internal    bool     `yaml:"internal"`
	Reverse     bool     `yaml:"reverse"`
	AutoCreated bool     `yaml:"auto_created"`
	Target      string   `yaml:"target"`
	Choices     []string `yaml:"choices"`
	Verbose     string   `yaml:"verbose"`
	Help        string   `yaml:"help"`
}

// Model declares one model configuration.
type Model struct {
	Entity      string               `yaml:"entity"`
	Fields      FieldList            `yaml:"fields"`
	Exclude     []string             `yaml:"exclude"`
	Surfaces    map[string]FieldList `yaml:"surfaces"`
	DisplayName string               `yaml:"display_name"`
	Description string               `yaml:"description"`
	Metadata    *model.Metadata      `yaml:"metadata"`

	line int
}

// FieldList is a field list that decodes names and nested groups.
type FieldList apis.FieldList

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *FieldList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: field list must be a sequence", node.Line)
	}
	out := make(FieldList, 0, len(node.Content))
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			out = append(out, apis.Name(item.Value))
		case yaml.SequenceNode:
			var names []string
			if err := item.Decode(&names); err != nil {
				return fmt.Errorf("line %d: group: %w", item.Line, err)
			}
			out = append(out, apis.Group(names...))
		default:
			return fmt.Errorf("line %d: field list item must be a name or a list of names", item.Line)
		}
	}
	*l = out
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler and records the line.
func (e *Entity) UnmarshalYAML(node *yaml.Node) error {
	type alias Entity
	if err := node.Decode((*alias)(e)); err != nil {
		return err
	}
	e.line = node.Line
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler and records the line.
func (m *Model) UnmarshalYAML(node *yaml.Node) error {
	type alias Model
	if err := node.Decode((*alias)(m)); err != nil {
		return err
	}
	m.line = node.Line
	return nil
}

// Entry is a loaded Configuration with the place it was declared.
type Entry struct {
	Config *model.Configuration
	Site   string
}

// Bundle is the result of a load: the declared entity types and the
// configurations over them, in declaration order.
type Bundle struct {
	Universe *universe.Universe
	Entries  []Entry
}

// Registrar records a Configuration with an explicit site.
// *registry.Registry implements it.
type Registrar interface {
	RegisterWithSite(c *model.Configuration, site string) error
}

// Register records every entry of b with r. All entries are attempted;
// failures are aggregated.
func (b *Bundle) Register(r Registrar) error {
	var errs []error
	for _, e := range b.Entries {
		if err := r.RegisterWithSite(e.Config, e.Site); err != nil {
			errs = append(errs, err)
		}
	}
	return apis.NewAggregateError(errs...)
}

// source is one parsed file.
type source struct {
	name string
	docs []Document
}

// Load reads every YAML document of r. name is used in sites and errors.
func Load(r io.Reader, name string) (*Bundle, error) {
	src, err := parse(r, name)
	if err != nil {
		return nil, err
	}
	return assemble([]source{src})
}

// LoadFS reads every file of fsys matching pattern, in lexical order.
// Models may refer to entities declared in any of the files.
func LoadFS(fsys fs.FS, pattern string) (*Bundle, error) {
	names, err := fs.Glob(fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("loader: %w", err)
	}
	sort.Strings(names)
	srcs := make([]source, 0, len(names))
	for _, name := range names {
		f, err := fsys.Open(name)
		if err != nil {
			return nil, fmt.Errorf("loader: %w", err)
		}
		src, err := parse(f, name)
		f.Close()
		if err != nil {
			return nil, err
		}
		srcs = append(srcs, src)
	}
	return assemble(srcs)
}

func parse(r io.Reader, name string) (source, error) {
	src := source{name: name}
	dec := yaml.NewDecoder(r)
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return src, nil
		}
		if err != nil {
			return src, fmt.Errorf("loader: %s: %w", name, err)
		}
		src.docs = append(src.docs, doc)
	}
}

// assemble adds every entity to a new universe, then builds the models.
func assemble(srcs []source) (*Bundle, error) {
	b := &Bundle{Universe: universe.MustNew()}
	var errs []error
	for _, src := range srcs {
		for _, doc := range src.docs {
			for _, e := range doc.Entities {
				d, err := e.descriptor()
				if err == nil {
					err = b.Universe.Add(d)
				}
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", site(src.name, e.line), err))
				}
			}
		}
	}
	for _, src := range srcs {
		for _, doc := range src.docs {
			for _, m := range doc.Models {
				c, err := m.configuration(b.Universe)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", site(src.name, m.line), err))
					continue
				}
				b.Entries = append(b.Entries, Entry{Config: c, Site: site(src.name, m.line)})
			}
		}
	}
	if err := apis.NewAggregateError(errs...); err != nil {
		return nil, err
	}
	return b, nil
}

func site(name string, line int) string {
	return fmt.Sprintf("%s:%d", name, line)
}

func (e Entity) descriptor() (*descriptor.Descriptor, error) {
	id, err := apis.ParseIdentifier(e.ID)
	if err != nil {
		return nil, err
	}
	fields := make([]*descriptor.Field, 0, len(e.Fields))
	for _, spec := range e.Fields {
		f, err := spec.build(id)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	var opts []descriptor.Option
	if e.VerboseName != "" {
		opts = append(opts, descriptor.WithVerboseName(e.VerboseName))
	}
	if e.VerboseNamePlural != "" {
		opts = append(opts, descriptor.WithVerboseNamePlural(e.VerboseNamePlural))
	}
	if e.Description != "" {
		opts = append(opts, descriptor.WithDescription(e.Description))
	}
	return descriptor.New(id, fields, opts...)
}

func (spec Field) build(owner apis.Identity) (*descriptor.Field, error) {
	f := descriptor.NewField(spec.Name, apis.Kind(spec.Kind))
	if spec.Target != "" {
		target, err := apis.ParseIdentifier(spec.Target)
		if err != nil {
			return nil, apis.NewConfigurationError(owner, "fields", fmt.Sprintf("field %q: %v", spec.Name, err))
		}
		f.Target(target)
	}
	if spec.Null {
		f.Nullable()
	}
	if spec.ReadOnly {
		f.ReadOnly()
	}
	if spec.PK {
		f.PrimaryKey()
	}
	if spec.Auto {
		f.AutoManaged()
	}
	if spec.Internal {
		f.Internal()
	}
	if spec.Reverse {
		f.Reverse()
	}
	if spec.AutoCreated {
		f.AutoCreated()
	}
	if len(spec.Choices) > 0 {
		f.Choices(spec.Choices...)
	}
	if spec.Verbose != "" {
		f.Verbose(spec.Verbose)
	}
	if spec.Help != "" {
		f.Help(spec.Help)
	}
	return f, nil
}

func (m Model) configuration(u *universe.Universe) (*model.Configuration, error) {
	id, err := apis.ParseIdentifier(m.Entity)
	if err != nil {
		return nil, err
	}
	d, ok := u.Lookup(id.Namespace, id.Name)
	if !ok {
		return nil, &apis.NotFoundError{Identifier: m.Entity}
	}
	var opts []model.Option
	if m.Fields != nil {
		opts = append(opts, model.WithFieldList(apis.FieldList(m.Fields)))
	}
	if len(m.Exclude) > 0 {
		opts = append(opts, model.WithExclude(m.Exclude...))
	}
	surfaces := make([]string, 0, len(m.Surfaces))
	for name := range m.Surfaces {
		surfaces = append(surfaces, name)
	}
	sort.Strings(surfaces)
	seen := make(map[apis.Surface]string, len(surfaces))
	for _, name := range surfaces {
		s, err := apis.ParseSurface(name)
		if err != nil {
			return nil, apis.NewConfigurationError(d.Identity(), "surfaces", err.Error())
		}
		if prev, ok := seen[s]; ok {
			return nil, apis.NewConfigurationError(d.Identity(), "surfaces",
				fmt.Sprintf("%q and %q both name surface %q", prev, name, s))
		}
		seen[s] = name
		// A null entry leaves the surface on the shared field list.
		if m.Surfaces[name] == nil {
			continue
		}
		opts = append(opts, model.WithSurfaceFieldList(s, apis.FieldList(m.Surfaces[name])))
	}
	if m.DisplayName != "" {
		opts = append(opts, model.WithDisplayName(m.DisplayName))
	}
	if m.Description != "" {
		opts = append(opts, model.WithDescription(m.Description))
	}
	if m.Metadata != nil {
		opts = append(opts, model.WithMetadata(*m.Metadata))
	}
	return model.New(d, opts...)
}
