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

// FormField is one input of a Form.
type FormField struct {
	Name     string
	Label    string
	Widget   string
	HelpText string
	Required bool
	ReadOnly bool
	Choices  []string
	// Group indexes Form.Groups, or -1.
	Group int
}

// Form is the editable-input schema of an entity.
type Form struct {
	base
	Fields []FormField
	// Groups lists field names laid out together.
	Groups [][]string
}

// Field returns the input named name.
func (f *Form) Field(name string) (FormField, bool) {
	for _, ff := range f.Fields {
		if ff.Name == name {
			return ff, true
		}
	}
	return FormField{}, false
}

// FormFactory builds *Form artifacts.
type FormFactory struct {
	kinds *kinds.Table
}

// NewFormFactory returns a FormFactory reading tbl.
func NewFormFactory(tbl *kinds.Table) *FormFactory { return &FormFactory{kinds: tbl} }

var _ apis.Factory = (*FormFactory)(nil)

// Surface implements apis.Factory.
func (*FormFactory) Surface() apis.Surface { return apis.SurfaceForm }

// Build implements apis.Factory. Fields reached through a relation are
// shown read-only; grouping hints survive only for inputs that were kept.
func (ff *FormFactory) Build(entity apis.Descriptor, res apis.Resolution) (apis.Artifact, []*apis.ComponentWarning, error) {
	form := &Form{base: base{surface: apis.SurfaceForm, entity: entity.Identity()}}
	remap := make(map[int]int)
	warns, err := walk(ff.kinds, apis.SurfaceForm, entity, res, func(f apis.ResolvedField, b kinds.Behavior) {
		readOnly := !f.Info.Editable || f.IsPath()
		field := FormField{
			Name:     f.Path,
			Label:    label(f),
			Widget:   b.Input.Widget,
			HelpText: f.Info.HelpText,
			Required: !f.Info.Nullable && !readOnly,
			ReadOnly: readOnly,
			Choices:  cloneStrings(f.Info.Choices),
			Group:    -1,
		}
		if f.Group >= 0 && f.Group < len(res.Groups) {
			idx, ok := remap[f.Group]
			if !ok {
				idx = len(form.Groups)
				remap[f.Group] = idx
				form.Groups = append(form.Groups, nil)
			}
			form.Groups[idx] = append(form.Groups[idx], f.Path)
			field.Group = idx
		}
		form.Fields = append(form.Fields, field)
	})
	if err != nil {
		return nil, nil, err
	}
	return form, warns, nil
}
