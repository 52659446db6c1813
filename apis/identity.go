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

import "strings"

// IdentifierSeparator splits the namespace from the type name in a string
// identifier such as "blog.Post".
const IdentifierSeparator = "."

// Identity is the stable handle of an entity type.
// It is comparable and is used as the registry key.
type Identity struct {
	// Namespace groups related entity types (e.g. "blog", "catalog").
	Namespace string
	// Name is the type name within the namespace (e.g. "Post").
	Name string
}

// String renders the identity as "namespace.Name".
func (id Identity) String() string {
	if id.Namespace == "" {
		return id.Name
	}
	return id.Namespace + IdentifierSeparator + id.Name
}

// IsZero reports whether id has neither namespace nor name.
func (id Identity) IsZero() bool {
	return id.Namespace == "" && id.Name == ""
}

// ParseIdentifier splits a "namespace.TypeName" string into an Identity.
// The input must contain exactly one separator and both sides must be
// non-empty; otherwise an *IdentifierFormatError is returned. The TypeName
// case is preserved; case-insensitive matching is the Universe's job.
func ParseIdentifier(s string) (Identity, error) {
	trimmed := strings.TrimSpace(s)
	switch n := strings.Count(trimmed, IdentifierSeparator); {
	case n == 0:
		return Identity{}, &IdentifierFormatError{Input: s, Reason: "missing separator"}
	case n > 1:
		return Identity{}, &IdentifierFormatError{Input: s, Reason: "more than one separator"}
	}
	ns, name, _ := strings.Cut(trimmed, IdentifierSeparator)
	if ns == "" || name == "" {
		return Identity{}, &IdentifierFormatError{Input: s, Reason: "empty namespace or type name"}
	}
	return Identity{Namespace: ns, Name: name}, nil
}

// MustParseIdentifier is like ParseIdentifier but panics on error.
// Intended for package-level declarations and tests.
func MustParseIdentifier(s string) Identity {
	id, err := ParseIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}
