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

import (
	"fmt"
	"strings"
)

// Surface names one generation target of a Configuration.
type Surface string

const (
	// SurfaceForm is the editable-input schema.
	SurfaceForm Surface = "form"
	// SurfaceTable is the tabular-display schema.
	SurfaceTable Surface = "table"
	// SurfaceFilter is the query-filter schema.
	SurfaceFilter Surface = "filter"
	// SurfaceSerializer is the wire-serialization schema.
	SurfaceSerializer Surface = "serializer"
	// SurfaceResource is the bulk import/export schema.
	SurfaceResource Surface = "resource"
	// SurfaceAdmin is the administrative list-view schema.
	SurfaceAdmin Surface = "admin-list"
)

// surfaces lists every surface in canonical order.
var surfaces = [...]Surface{
	SurfaceForm,
	SurfaceTable,
	SurfaceFilter,
	SurfaceSerializer,
	SurfaceResource,
	SurfaceAdmin,
}

// Surfaces returns all surfaces in canonical order.
func Surfaces() []Surface {
	out := make([]Surface, len(surfaces))
	copy(out, surfaces[:])
	return out
}

// Valid reports whether s is one of the known surfaces.
func (s Surface) Valid() bool {
	for _, k := range surfaces {
		if k == s {
			return true
		}
	}
	return false
}

// ParseSurface maps a user-supplied name to a Surface.
// "admin", "admin_view" and "admin-view" are accepted aliases of SurfaceAdmin.
func ParseSurface(s string) (Surface, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case "admin", "admin_view", "admin-view", "admin_list":
		return SurfaceAdmin, nil
	}
	if sf := Surface(v); sf.Valid() {
		return sf, nil
	}
	return "", fmt.Errorf("modelreg: unknown surface %q", s)
}
