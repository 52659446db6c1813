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

package factory

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vmihailenco/msgpack/v5"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/kinds"
)

// WireField is one serialized attribute.
type WireField struct {
	Name     string
	Kind     apis.Kind
	Scalar   string
	Custom   bool
	Nullable bool
	ReadOnly bool
	List     bool
}

// Serializer is the wire schema of an entity.
type Serializer struct {
	base
	// TypeName is the GraphQL object name.
	TypeName string
	Fields   []WireField
}

// Names returns the wire field names in order.
func (s *Serializer) Names() []string {
	out := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		out[i] = f.Name
	}
	return out
}

// SDL renders the schema as a GraphQL object type, preceded by declarations
// of the non-builtin scalars it uses. Field names are camel-cased; a path
// whose camel-cased name is already taken keeps its separators instead.
func (s *Serializer) SDL() string {
	doc := &ast.SchemaDocument{}
	declared := make(map[string]bool)
	obj := &ast.Definition{
		Kind: ast.Object,
		Name: s.TypeName,
	}
	names := graphQLNames(s.Fields)
	for i, f := range s.Fields {
		if f.Custom && !declared[f.Scalar] {
			declared[f.Scalar] = true
			doc.Definitions = append(doc.Definitions, &ast.Definition{Kind: ast.Scalar, Name: f.Scalar})
		}
		typ := &ast.Type{NamedType: f.Scalar, NonNull: !f.Nullable}
		if f.List {
			typ = &ast.Type{Elem: &ast.Type{NamedType: f.Scalar, NonNull: true}, NonNull: !f.Nullable}
		}
		obj.Fields = append(obj.Fields, &ast.FieldDefinition{Name: names[i], Type: typ})
	}
	doc.Definitions = append(doc.Definitions, obj)

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)
	return buf.String()
}

// Project restricts record to the schema's fields, in schema order. Missing
// fields are present with a nil value.
func (s *Serializer) Project(record map[string]any) map[string]any {
	out := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Name] = record[f.Name]
	}
	return out
}

// Marshal encodes the projection of record with msgpack.
func (s *Serializer) Marshal(record map[string]any) ([]byte, error) {
	b, err := msgpack.Marshal(s.Project(record))
	if err != nil {
		return nil, fmt.Errorf("modelreg: encoding %s: %w", s.entity, err)
	}
	return b, nil
}

// Unmarshal decodes a msgpack map and drops keys outside the schema.
func (s *Serializer) Unmarshal(data []byte) (map[string]any, error) {
	var raw map[string]any
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("modelreg: decoding %s: %w", s.entity, err)
	}
	return s.Project(raw), nil
}

// graphQLNames maps the wire fields to distinct GraphQL names. "author_name"
// and "author__name" both camelize to "authorName"; the later one becomes
// "author__name", and a numeric suffix settles anything still taken.
func graphQLNames(fields []WireField) []string {
	out := make([]string, len(fields))
	used := make(map[string]bool, len(fields))
	for i, f := range fields {
		name := graphQLName(f.Name)
		if used[name] {
			name = graphQLSafe(f.Name)
		}
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", graphQLSafe(f.Name), n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// graphQLName maps a field path to a GraphQL-safe camelCase name.
func graphQLName(path string) string {
	clean := graphQLSafe(path)
	if strings.Trim(clean, "_") == "" {
		return "_"
	}
	return inflect.CamelizeDownFirst(clean)
}

// graphQLSafe replaces every rune GraphQL rejects with '_'. Names starting
// with "__" are reserved for introspection, so they get a leading 'f'.
func graphQLSafe(path string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, path)
	if clean == "" || strings.HasPrefix(clean, "__") || unicode.IsDigit([]rune(clean)[0]) {
		clean = "f" + clean
	}
	return clean
}

// SerializerFactory builds *Serializer artifacts.
type SerializerFactory struct {
	kinds *kinds.Table
}

// NewSerializerFactory returns a SerializerFactory reading tbl.
func NewSerializerFactory(tbl *kinds.Table) *SerializerFactory {
	return &SerializerFactory{kinds: tbl}
}

var _ apis.Factory = (*SerializerFactory)(nil)

// Surface implements apis.Factory.
func (*SerializerFactory) Surface() apis.Surface { return apis.SurfaceSerializer }

// Build implements apis.Factory.
func (sf *SerializerFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	ser := &Serializer{
		base:     base{surface: apis.SurfaceSerializer, entity: entity.Identity()},
		TypeName: entity.Identity().Name,
	}
	warns, err := walk(sf.kinds, apis.SurfaceSerializer, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		ser.Fields = append(ser.Fields, WireField{
			Name:     f.Path,
			Kind:     f.Info.Kind,
			Scalar:   b.Wire.Scalar,
			Custom:   b.Wire.Custom,
			Nullable: f.Info.Nullable || f.IsPath(),
			ReadOnly: !f.Info.Editable || f.IsPath(),
			List:     f.Info.Kind == apis.KindManyToMany,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return ser, warns, nil
}
