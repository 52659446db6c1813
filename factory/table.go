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

// Column is one column of a Table.
type Column struct {
	Name     string
	Header   string
	Sortable bool
	Align    string
}

// Table is the tabular-display schema of an entity.
type Table struct {
	base
	Columns []Column
}

// Headers returns the column headers in order.
func (t *Table) Headers() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Header
	}
	return out
}

// TableFactory builds *Table artifacts.
type TableFactory struct {
	kinds *kinds.Table
}

// NewTableFactory returns a TableFactory reading tbl.
func NewTableFactory(tbl *kinds.Table) *TableFactory { return &TableFactory{kinds: tbl} }

var _ apis.Factory = (*TableFactory)(nil)

// Surface implements apis.Factory.
func (*TableFactory) Surface() apis.Surface { return apis.SurfaceTable }

// Build implements apis.Factory.
func (tf *TableFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	tbl := &Table{base: base{surface: apis.SurfaceTable, entity: entity.Identity()}}
	warns, err := walk(tf.kinds, apis.SurfaceTable, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		tbl.Columns = append(tbl.Columns, Column{
			Name:     f.Path,
			Header:   title(label(f)),
			Sortable: b.Column.Sortable,
			Align:    b.Column.Align,
		})
	})
	if err != nil {
		return nil, nil, err
	}
	return tbl, warns, nil
}
