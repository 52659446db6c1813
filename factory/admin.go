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
	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/kinds"
)

// Admin is the administrative list-view schema of an entity.
type Admin struct {
	base
	ListDisplay  []string
	ListFilter   []string
	SearchFields []string
	ReadOnly     []string
	// Ordering holds sort keys; a leading "-" means descending.
	Ordering          []string
	VerboseName       string
	VerboseNamePlural string
}

// AdminFactory builds *Admin artifacts.
type AdminFactory struct {
	kinds *kinds.Table
}

// NewAdminFactory returns an AdminFactory reading tbl.
func NewAdminFactory(tbl *kinds.Table) *AdminFactory { return &AdminFactory{kinds: tbl} }

var _ apis.Factory = (*AdminFactory)(nil)

// Surface implements apis.Factory.
func (*AdminFactory) Surface() apis.Surface { return apis.SurfaceAdmin }

// Build implements apis.Factory. The list is ordered newest first by the
// entity's auto-managed timestamp if it has one, else by primary key.
func (af *AdminFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	adm := &Admin{
		base:              base{surface: apis.SurfaceAdmin, entity: entity.Identity()},
		VerboseName:       entity.VerboseName(),
		VerboseNamePlural: entity.VerboseNamePlural(),
	}
	warns, err := walk(af.kinds, apis.SurfaceAdmin, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		adm.ListDisplay = append(adm.ListDisplay, f.Path)
		if b.Admin.ListFilter {
			adm.ListFilter = append(adm.ListFilter, f.Path)
		}
		if b.Admin.Searchable {
			adm.SearchFields = append(adm.SearchFields, f.Path)
		}
		if !f.Info.Editable || f.IsPath() {
			adm.ReadOnly = append(adm.ReadOnly, f.Path)
		}
	})
	if err != nil {
		return nil, nil, err
	}
	adm.Ordering = ordering(entity)
	return adm, warns, nil
}

func ordering(entity apis.Descriptor) []string {
	var pk string
	for _, f := range entity.Fields() {
		if f.AutoManaged && f.Kind == apis.KindDateTime {
			return []string{"-" + f.Name}
		}
		if f.PrimaryKey && pk == "" {
			pk = f.Name
		}
	}
	if pk == "" {
		return nil
	}
	return []string{"-" + pk}
}
