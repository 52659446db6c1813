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

package apis

// Source is the read side of a Configuration as seen by the resolver.
type Source interface {
	// Entity returns the descriptor the configuration is bound to.
	Entity() Descriptor
	// SharedFields returns the list used by every surface without an override.
	SharedFields() FieldList
	// IsExcluded reports whether name was excluded from smart defaults.
	IsExcluded(name string) bool
	// SurfaceFields returns the override list for s; ok is false when the
	// surface falls back to shared fields.
	SurfaceFields(s Surface) (fields FieldList, ok bool)
	// HasCustom reports whether a caller-supplied artifact replaces s.
	HasCustom(s Surface) bool
}

// Resolver computes and validates the field list of one surface.
type Resolver interface {
	// Resolve runs the precedence tiers for s and validates the winning
	// list against src.Entity(). It is a pure function of its inputs.
	Resolve(src Source, s Surface) (Resolution, error)
}
