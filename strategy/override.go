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

import "dirpx.dev/modelreg/apis"

// NewOverrideStrategy creates the tier that uses a surface-specific field list.
func NewOverrideStrategy() apis.Strategy {
	return overrideStrategy{}
}

type overrideStrategy struct{}

var _ apis.Strategy = overrideStrategy{}

func (overrideStrategy) Tier() apis.Tier { return apis.TierOverride }

// TryResolve returns the override of s when one is present, even if empty.
func (overrideStrategy) TryResolve(src apis.Source, s apis.Surface, _ apis.Config) (apis.FieldList, bool) {
	if src == nil {
		return nil, false
	}
	fields, ok := src.SurfaceFields(s)
	if !ok {
		return nil, false
	}
	return fields.Clone(), true
}
