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

// Package factory builds the per-surface artifacts of a Configuration from a
// resolved field list. Each factory is pure: it reads the entity descriptor,
// the resolution and a kinds.Table, and never touches shared state.
package factory

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/descriptor"
	"dirpx.dev/modelreg/kinds"
)

// ErrNoFactory is the cause reported when a surface has no factory.
var ErrNoFactory = errors.New("modelreg(factory): no factory for surface")

// Defaults returns one factory per surface, all reading tbl.
// A nil tbl selects kinds.Default().
func Defaults(tbl *kinds.Table) apis.FactorySet {
	if tbl == nil {
		tbl = kinds.Default()
	}
	return apis.FactorySet{
		apis.SurfaceForm:       NewFormFactory(tbl),
		apis.SurfaceTable:      NewTableFactory(tbl),
		apis.SurfaceFilter:     NewFilterFactory(tbl),
		apis.SurfaceSerializer: NewSerializerFactory(tbl),
		apis.SurfaceResource:   NewResourceFactory(tbl),
		apis.SurfaceAdmin:      NewAdminFactory(tbl),
	}
}

// Generate runs f and normalizes its failures: errors and panics come back
// as *apis.ComponentGenerationError.
func Generate(f apis.Factory, entity apis.Descriptor, res apis.Resolution) (art apis.Artifact, warns []*apis.ComponentWarning, err error) {
	var id apis.Identity
	if entity != nil {
		id = entity.Identity()
	}
	defer func() {
		if r := recover(); r != nil {
			art, warns = nil, nil
			err = &apis.ComponentGenerationError{Surface: res.Surface, Entity: id, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	if f == nil {
		return nil, nil, &apis.ComponentGenerationError{Surface: res.Surface, Entity: id, Cause: ErrNoFactory}
	}
	if entity == nil {
		return nil, nil, &apis.ComponentGenerationError{Surface: res.Surface, Entity: id, Cause: errors.New("nil entity")}
	}
	art, warns, err = f.Build(entity, res)
	if err != nil {
		var cge *apis.ComponentGenerationError
		if !errors.As(err, &cge) {
			err = &apis.ComponentGenerationError{Surface: res.Surface, Entity: id, Cause: err}
		}
		return nil, nil, err
	}
	if art == nil {
		return nil, nil, &apis.ComponentGenerationError{Surface: res.Surface, Entity: id, Cause: errors.New("factory returned no artifact")}
	}
	return art, warns, nil
}

// base carries the identity shared by every artifact.
type base struct {
	surface apis.Surface
	entity  apis.Identity
}

// Surface returns the surface the artifact was built for.
func (b base) Surface() apis.Surface { return b.surface }

// Entity returns the identity of the described entity.
func (b base) Entity() apis.Identity { return b.entity }

// walk calls fn for every resolved field whose kind is representable on
// surface. Unrepresentable fields become warnings; unknown kinds abort.
func walk(tbl *kinds.Table, surface apis.Surface, entity apis.Descriptor, res apis.Resolution,
	fn func(f apis.ResolvedField, b kinds.Behavior)) ([]*apis.ComponentWarning, error) {
	var warns []*apis.ComponentWarning
	for _, f := range res.Fields {
		b, err := tbl.Lookup(f.Info.Kind)
		if err != nil {
			return nil, &apis.ComponentGenerationError{
				Surface: surface,
				Entity:  entity.Identity(),
				Cause:   fmt.Errorf("field %q: %w", f.Path, err),
			}
		}
		if b.Omitted(surface) {
			warns = append(warns, &apis.ComponentWarning{
				Surface: surface,
				Entity:  entity.Identity(),
				Field:   f.Path,
				Kind:    f.Info.Kind,
				Reason:  fmt.Sprintf("%s fields are not supported here", f.Info.Kind),
			})
			continue
		}
		fn(f, b)
	}
	return warns, nil
}

// label is the human name of a resolved field. Relation paths are spelled
// out segment by segment ("author__name" becomes "author name").
func label(f apis.ResolvedField) string {
	if !f.IsPath() {
		if f.Info.VerboseName != "" {
			return f.Info.VerboseName
		}
		return descriptor.Humanize(f.Info.Name)
	}
	parts := strings.FieldsFunc(f.Path, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for i, p := range parts {
		parts[i] = descriptor.Humanize(p)
	}
	return strings.Join(parts, " ")
}

// title capitalizes every word of s. A caser is not safe for concurrent
// use, so one is created per call.
func title(s string) string {
	return cases.Title(language.Und, cases.NoLower).String(s)
}

func cloneStrings(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return append([]string(nil), s...)
}
