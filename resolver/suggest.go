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

package resolver

import (
	"github.com/agnivade/levenshtein"

	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/config"
)

// Suggest returns the candidate closest to name by edit distance, or "" when
// none is within config.SuggestionThreshold. Ties go to the earliest
// candidate, so suggestions follow declaration order.
func Suggest(cfg apis.Config, name string, candidates []string) string {
	limit := config.SuggestionThreshold(cfg, name)
	if limit < 0 || name == "" {
		return ""
	}
	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
