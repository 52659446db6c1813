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

// Package codegen renders Go data-transfer structs from serializer schemas.
package codegen

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"
	"github.com/go-openapi/inflect"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/factory"
)

// HeaderComment is written at the top of every generated file.
const HeaderComment = "Code generated by modelreg. DO NOT EDIT."

// File returns a jennifer file in package pkg holding one struct per
// serializer, ordered by type name.
func File(pkg string, sers ...*factory.Serializer) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(HeaderComment)

	sorted := make([]*factory.Serializer, 0, len(sers))
	for _, s := range sers {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].TypeName < sorted[j].TypeName })

	for _, s := range sorted {
		f.Commentf("%s is the wire form of %s.", s.TypeName, s.Entity())
		f.Type().Id(s.TypeName).StructFunc(func(g *jen.Group) {
			names := GoNames(s.Fields)
			for i, w := range s.Fields {
				g.Id(names[i]).Add(goType(w)).Tag(map[string]string{
					"json":    jsonTag(w),
					"msgpack": w.Name,
				})
			}
		})
	}
	return f
}

// Render writes the generated source of File(pkg, sers...) to w.
func Render(w io.Writer, pkg string, sers ...*factory.Serializer) error {
	if err := File(pkg, sers...).Render(w); err != nil {
		return fmt.Errorf("codegen: rendering package %s: %w", pkg, err)
	}
	return nil
}

// GoName maps a field path such as "author__name" to an exported Go
// identifier ("AuthorName").
func GoName(path string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, path)
	name := inflect.Camelize(strings.Trim(clean, "_"))
	if name == "" || !unicode.IsLetter([]rune(name)[0]) {
		name = "F" + name
	}
	return name
}

// GoNames maps wire fields to distinct Go identifiers. A field whose
// GoName is already taken keeps its separators ("Author__name"), and a
// numeric suffix settles anything still taken.
func GoNames(fields []factory.WireField) []string {
	out := make([]string, len(fields))
	used := make(map[string]bool, len(fields))
	for i, w := range fields {
		name := GoName(w.Name)
		if used[name] {
			name = goSafe(w.Name)
		}
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", goSafe(w.Name), n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// goSafe keeps underscores and exports the first letter.
func goSafe(path string) string {
	clean := []rune(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, path))
	if len(clean) == 0 || !unicode.IsLetter(clean[0]) {
		return "F" + string(clean)
	}
	clean[0] = unicode.ToUpper(clean[0])
	return string(clean)
}

func jsonTag(w factory.WireField) string {
	if w.Nullable {
		return w.Name + ",omitempty"
	}
	return w.Name
}

func goType(w factory.WireField) *jen.Statement {
	elem := kindType(w.Kind)
	switch {
	case w.List:
		return jen.Index().Add(elem)
	case w.Nullable && w.Kind != apis.KindJSON && w.Kind != apis.KindBytes:
		return jen.Op("*").Add(elem)
	}
	return elem
}

func kindType(k apis.Kind) *jen.Statement {
	switch k {
	case apis.KindInt:
		return jen.Int64()
	case apis.KindFloat:
		return jen.Float64()
	case apis.KindBool:
		return jen.Bool()
	case apis.KindDate, apis.KindDateTime, apis.KindTime:
		return jen.Qual("time", "Time")
	case apis.KindDuration:
		return jen.Qual("time", "Duration")
	case apis.KindUUID:
		return jen.Qual("github.com/google/uuid", "UUID")
	case apis.KindJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case apis.KindBytes:
		return jen.Index().Byte()
	}
	// Relations, text-like, decimal and unknown kinds travel as strings.
	return jen.String()
}
