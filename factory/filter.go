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
	"fmt"
	"slices"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/kinds"
)

// FilterField is one query filter.
type FilterField struct {
	Name    string
	Label   string
	Kind    apis.Kind
	Lookup  string
	Choices []string
}

// Filter is the query-filter schema of an entity.
type Filter struct {
	base
	Filters    []FilterField
	validators map[string]func(string) error
}

// Validate checks a raw value for the filter named name. Restricted fields
// accept only their choices; other kinds use the validator of their kind.
func (f *Filter) Validate(name, value string) error {
	var field *FilterField
	for i := range f.Filters {
		if f.Filters[i].Name == name {
			field = &f.Filters[i]
			break
		}
	}
	if field == nil {
		return &apis.FieldValidationError{Field: name, Entity: f.entity, Reason: "unknown filter"}
	}
	if len(field.Choices) > 0 && field.Lookup != kinds.LookupIsNull {
		if !slices.Contains(field.Choices, value) {
			return fmt.Errorf("modelreg: filter %q: %q is not one of %v", name, value, field.Choices)
		}
		return nil
	}
	if v := f.validators[name]; v != nil {
		if err := v(value); err != nil {
			return fmt.Errorf("modelreg: filter %q: %w", name, err)
		}
	}
	return nil
}

// FilterFactory builds *Filter artifacts.
type FilterFactory struct {
	kinds *kinds.Table
}

// NewFilterFactory returns a FilterFactory reading tbl.
func NewFilterFactory(tbl *kinds.Table) *FilterFactory { return &FilterFactory{kinds: tbl} }

var _ apis.Factory = (*FilterFactory)(nil)

// Surface implements apis.Factory.
func (*FilterFactory) Surface() apis.Surface { return apis.SurfaceFilter }

// Build implements apis.Factory.
func (ff *FilterFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	flt := &Filter{
		base:       base{surface: apis.SurfaceFilter, entity: entity.Identity()},
		validators: make(map[string]func(string) error),
	}
	warns, err := walk(ff.kinds, apis.SurfaceFilter, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		flt.Filters = append(flt.Filters, FilterField{
			Name:    f.Path,
			Label:   label(f),
			Kind:    f.Info.Kind,
			Lookup:  b.Filter.Lookup,
			Choices: cloneStrings(f.Info.Choices),
		})
		if b.Filter.Validate != nil {
			flt.validators[f.Path] = b.Filter.Validate
		}
	})
	if err != nil {
		return nil, nil, err
	}
	return flt, warns, nil
}
