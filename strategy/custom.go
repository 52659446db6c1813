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

// Package strategy implements the precedence tiers of field resolution.
// Each tier is an apis.Strategy; a resolver runs them in order and the first
// tier that handles a surface decides its field list.
package strategy

import "dirpx.dev/modelreg/apis"

// NewCustomStrategy creates the tier that short-circuits resolution for
// surfaces whose artifact was supplied by the caller.
func NewCustomStrategy() apis.Strategy {
	return customStrategy{}
}

// customStrategy handles a surface without producing fields: the caller's
// artifact is used as-is, so nothing needs resolving.
type customStrategy struct{}

// Ensure customStrategy implements apis.Strategy.
var _ apis.Strategy = customStrategy{}

func (customStrategy) Tier() apis.Tier { return apis.TierCustom }

// TryResolve reports handled with a nil list when src has a custom artifact for s.
func (customStrategy) TryResolve(src apis.Source, s apis.Surface, _ apis.Config) (apis.FieldList, bool) {
	if src == nil || !src.HasCustom(s) {
		return nil, false
	}
	return nil, true
}
