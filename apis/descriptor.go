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

// Descriptor is the read-only reflection of an entity type. It is supplied
// by an external type system and is treated as immutable.
type Descriptor interface {
	// Identity returns the stable type handle.
	Identity() Identity
	// Fields returns all fields in declaration order.
	Fields() []FieldInfo
	// Field returns the field with the given exact name.
	Field(name string) (FieldInfo, bool)
	// VerboseName returns the singular human name (e.g. "blog post").
	VerboseName() string
	// VerboseNamePlural returns the plural human name (e.g. "blog posts").
	VerboseNamePlural() string
}

// Universe is the external type-lookup collaborator: the set of entity
// types known to the process. The registry uses it to resolve string
// identifiers and the resolver uses it to walk relation paths.
type Universe interface {
	// Get returns the descriptor for an exact identity.
	Get(id Identity) (Descriptor, bool)
	// Lookup finds a descriptor by namespace and type name. The namespace
	// must match exactly; the type name is matched case-insensitively.
	Lookup(namespace, name string) (Descriptor, bool)
}
