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

package strategy

import (
	"strings"

	"dirpx.dev/modelreg/apis"
)

// NewDefaultsStrategy creates the zero-configuration tier: every field of the
// entity in declaration order, minus explicit exclusions and minus fields
// that are almost never wanted on a generated surface.
func NewDefaultsStrategy() apis.Strategy {
	return defaultsStrategy{}
}

// defaultsStrategy is the universal fallback; it always handles the surface.
type defaultsStrategy struct{}

var _ apis.Strategy = defaultsStrategy{}

func (defaultsStrategy) Tier() apis.Tier { return apis.TierDefault }

// TryResolve computes the smart-default list. A nil entity yields an empty list.
func (defaultsStrategy) TryResolve(src apis.Source, _ apis.Surface, cfg apis.Config) (apis.FieldList, bool) {
	if src == nil || src.Entity() == nil {
		return apis.FieldList{}, true
	}
	fields := src.Entity().Fields()
	out := make(apis.FieldList, 0, len(fields))
	for _, f := range fields {
		if src.IsExcluded(f.Name) || AutoExcluded(f, cfg) {
			continue
		}
		out = append(out, apis.Name(f.Name))
	}
	return out, true
}

// AutoExcluded reports whether f is left out of smart defaults. Such fields
// can still be named explicitly in any field list.
func AutoExcluded(f apis.FieldInfo, cfg apis.Config) bool {
	switch {
	case f.PrimaryKey, f.Internal, f.AutoManaged, f.Reverse, !f.Editable:
		return true
	case f.Kind == apis.KindManyToMany && f.AutoCreated:
		return true
	}
	for _, d := range cfg.DiscriminatorNames {
		if f.Name == d {
			return true
		}
	}
	for _, suffix := range cfg.ExcludedSuffixes {
		if suffix != "" && strings.HasSuffix(f.Name, suffix) {
			return true
		}
	}
	return false
}
