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

// Artifact is a generated (or caller-supplied) object for one surface of one
// entity. Concrete artifact types live in the factory package.
type Artifact interface {
	// Surface returns the surface the artifact was built for.
	Surface() Surface
	// Entity returns the identity of the entity the artifact describes.
	Entity() Identity
}

// Factory builds the artifact of one surface from a resolved field list.
// Implementations must be pure: the same inputs yield an equivalent artifact.
// Non-fatal problems are reported as warnings and the affected fields are
// left out of the artifact.
type Factory interface {
	Surface() Surface
	Build(entity Descriptor, res Resolution) (Artifact, []*ComponentWarning, error)
}

// FactorySet maps each surface to its factory. Treat as immutable once built.
type FactorySet map[Surface]Factory

// Tier identifies which precedence level produced a field list.
type Tier int

const (
	// TierCustom means a caller-supplied artifact bypassed resolution.
	TierCustom Tier = iota
	// TierOverride means a surface-specific field list was used.
	TierOverride
	// TierShared means the shared field list was used.
	TierShared
	// TierDefault means the smart-default field list was computed.
	TierDefault
)

func (t Tier) String() string {
	switch t {
	case TierCustom:
		return "custom"
	case TierOverride:
		return "override"
	case TierShared:
		return "shared"
	case TierDefault:
		return "default"
	default:
		return "unknown"
	}
}

// ResolvedField is one validated entry of a resolved field list.
type ResolvedField struct {
	// Path is the reference as written, e.g. "title" or "author__name".
	Path string
	// Info describes the terminal field the path points to.
	Info FieldInfo
	// Group is the index into Resolution.Groups, or -1.
	Group int
}

// IsPath reports whether the field was reached through a relation.
func (f ResolvedField) IsPath() bool {
	return f.Info.Name != f.Path
}

// Resolution is the outcome of field resolution for one surface.
type Resolution struct {
	Surface Surface
	Tier    Tier
	Fields  []ResolvedField
	// Groups holds the grouping hints of the field list, each as the paths
	// it contains.
	Groups [][]string
}

// Names returns the resolved paths in order.
func (r Resolution) Names() []string {
	out := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		out[i] = f.Path
	}
	return out
}
