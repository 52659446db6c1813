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

// Strategy is one precedence tier. A Resolver chains strategies in order
// (custom -> override -> shared -> smart defaults) and the first one that
// handles the surface wins.
type Strategy interface {
	// Tier identifies the precedence level this strategy implements.
	Tier() Tier

	// TryResolve returns the field list for s if this tier applies.
	// It returns (nil, false) to fall through to the next tier.
	TryResolve(src Source, s Surface, cfg Config) (fields FieldList, handled bool)
}
