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

// NewSharedStrategy creates the tier that uses the shared field list.
func NewSharedStrategy() apis.Strategy {
	return sharedStrategy{}
}

type sharedStrategy struct{}

var _ apis.Strategy = sharedStrategy{}

func (sharedStrategy) Tier() apis.Tier { return apis.TierShared }

// TryResolve falls through when the shared list is empty.
func (sharedStrategy) TryResolve(src apis.Source, _ apis.Surface, _ apis.Config) (apis.FieldList, bool) {
	if src == nil {
		return nil, false
	}
	shared := src.SharedFields()
	if len(shared) == 0 {
		return nil, false
	}
	return shared.Clone(), true
}
