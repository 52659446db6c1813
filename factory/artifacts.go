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

import "dirpx.dev/modelreg/apis"

// Constructors for hand-built artifacts, used as custom replacements of the
// generated ones.

// NewForm returns a Form for entity with the given inputs.
func NewForm(entity apis.Identity, fields ...FormField) *Form {
	return &Form{base: base{surface: apis.SurfaceForm, entity: entity}, Fields: fields}
}

// NewTable returns a Table for entity with the given columns.
func NewTable(entity apis.Identity, cols ...Column) *Table {
	return &Table{base: base{surface: apis.SurfaceTable, entity: entity}, Columns: cols}
}

// NewFilter returns a Filter for entity. Values are checked only against
// choices; use SetValidator for anything else.
func NewFilter(entity apis.Identity, filters ...FilterField) *Filter {
	return &Filter{
		base:       base{surface: apis.SurfaceFilter, entity: entity},
		Filters:    filters,
		validators: make(map[string]func(string) error),
	}
}

// SetValidator installs the value check of the filter named name.
func (f *Filter) SetValidator(name string, v func(string) error) {
	if f.validators == nil {
		f.validators = make(map[string]func(string) error)
	}
	f.validators[name] = v
}

// NewSerializer returns a Serializer for entity.
func NewSerializer(entity apis.Identity, typeName string, fields ...WireField) *Serializer {
	return &Serializer{base: base{surface: apis.SurfaceSerializer, entity: entity}, TypeName: typeName, Fields: fields}
}

// NewResource returns a Resource for entity with the given columns.
func NewResource(entity apis.Identity, cols ...ResourceColumn) *Resource {
	return &Resource{base: base{surface: apis.SurfaceResource, entity: entity}, Columns: cols}
}

// NewAdmin returns an empty Admin for entity.
func NewAdmin(entity apis.Identity) *Admin {
	return &Admin{base: base{surface: apis.SurfaceAdmin, entity: entity}}
}
