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

package reflect

import (
	"errors"
	"path"
	"reflect"
	"strings"
)

// DefaultMaxUnwrap bounds container unwrapping when the caller passes a
// non-positive limit.
const DefaultMaxUnwrap = 8

var (
	// ErrReflectNilType is returned when a nil reflect.Type is provided.
	ErrReflectNilType = errors.New("reflect: nil reflect.Type provided")
	// ErrReflectTypeNotNamed indicates that the provided type (after unwrapping containers)
	// does not contain a named type (e.g., anonymous struct, func, interface{}).
	ErrReflectTypeNotNamed = errors.New("reflect: type has no name")
	// ErrReflectNotStruct indicates that the nearest named type is not a struct.
	ErrReflectNotStruct = errors.New("reflect: type is not a struct")
)

// Normalize unwraps containers and returns the nearest named struct type,
// or an error if none is found within maxUnwrap steps.
//
// Unwrapping policy:
//   - ptr/slice/array -> Elem()
//   - struct: if t.Name() != "", return t; otherwise ErrReflectTypeNotNamed.
//   - anything else: ErrReflectNotStruct.
//
// If maxUnwrap <= 0, DefaultMaxUnwrap is used.
func Normalize(t reflect.Type, maxUnwrap int) (reflect.Type, error) {
	if t == nil {
		return nil, ErrReflectNilType
	}
	if maxUnwrap <= 0 {
		maxUnwrap = DefaultMaxUnwrap
	}

	for i := 0; t != nil && i <= maxUnwrap; i++ {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Array:
			t = t.Elem()
		case reflect.Struct:
			if t.Name() != "" {
				return t, nil
			}
			return nil, ErrReflectTypeNotNamed
		default:
			return nil, ErrReflectNotStruct
		}
	}
	return nil, ErrReflectTypeNotNamed
}

// Deref strips pointer indirections and reports whether any were present.
// A pointer field is nullable.
func Deref(t reflect.Type) (reflect.Type, bool) {
	ptr := false
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
		ptr = true
	}
	return t, ptr
}

// TypeName derives the "pkg.Type" name of a named type: the last element
// of the package path, a dot, and the type name with any generic
// instantiation suffix removed.
func TypeName(t reflect.Type) (pkg, name string) {
	name = t.Name()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	if p := t.PkgPath(); p != "" {
		pkg = path.Base(p)
	}
	return pkg, name
}
