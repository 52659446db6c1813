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

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/kinds"
)

// ResourceColumn is one column of a bulk import/export sheet.
type ResourceColumn struct {
	Name       string
	Header     string
	Format     string
	Importable bool
}

// Resource is the bulk import/export schema of an entity.
type Resource struct {
	base
	Columns []ResourceColumn
}

// Header returns the header row.
func (r *Resource) Header() []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = c.Header
	}
	return out
}

// Row renders record as one sheet row in column order. Nil and missing
// values become empty cells.
func (r *Resource) Row(record map[string]any) []string {
	out := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		if v, ok := record[c.Name]; ok && v != nil {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

// ResourceFactory builds *Resource artifacts.
type ResourceFactory struct {
	kinds *kinds.Table
}

// NewResourceFactory returns a ResourceFactory reading tbl.
func NewResourceFactory(tbl *kinds.Table) *ResourceFactory { return &ResourceFactory{kinds: tbl} }

var _ apis.Factory = (*ResourceFactory)(nil)

// Surface implements apis.Factory.
func (*ResourceFactory) Surface() apis.Surface { return apis.SurfaceResource }

// Build implements apis.Factory.
func (rf *ResourceFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	out := &Resource{base: base{surface: apis.SurfaceResource, entity: entity.Identity()}}
	warns, err := walk(rf.kinds, apis.SurfaceResource, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		out.Columns = append(out.Columns, ResourceColumn{
			Name:       f.Path,
			Header:     f.Path,
			Format:     b.Export.Format,
			Importable: f.Info.Editable && !f.IsPath(),
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return out, warns, nil
}
