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

package registry

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"dirpx.dev/modelreg/apis"
)

// SurfaceFlags tells how one surface of a Configuration is customized.
type SurfaceFlags struct {
	Override bool `json:"override" yaml:"override"`
	Custom   bool `json:"custom" yaml:"custom"`
}

// EntitySummary describes one registration.
type EntitySummary struct {
	Entity      string                        `json:"entity" yaml:"entity"`
	DisplayName string                        `json:"display_name" yaml:"display_name"`
	Slug        string                        `json:"slug" yaml:"slug"`
	Site        string                        `json:"site,omitempty" yaml:"site,omitempty"`
	Surfaces    map[apis.Surface]SurfaceFlags `json:"surfaces" yaml:"surfaces"`
}

// Summary is a read-only report of a registry's contents.
type Summary struct {
	Count    int             `json:"count" yaml:"count"`
	Sealed   bool            `json:"sealed" yaml:"sealed"`
	Entities []EntitySummary `json:"entities" yaml:"entities"`
}

// Summarize reports every registration in registration order. It builds no
// artifacts.
func (r *Registry) Summarize() Summary {
	all := r.All()
	sum := Summary{Count: len(all), Sealed: r.Sealed(), Entities: make([]EntitySummary, 0, len(all))}
	for _, c := range all {
		site, _ := r.Site(c)
		es := EntitySummary{
			Entity:      c.Identity().String(),
			DisplayName: c.DisplayName(),
			Slug:        c.Slug(),
			Site:        site,
			Surfaces:    make(map[apis.Surface]SurfaceFlags, len(apis.Surfaces())),
		}
		for _, s := range apis.Surfaces() {
			es.Surfaces[s] = SurfaceFlags{Override: c.HasOverride(s), Custom: c.HasCustom(s)}
		}
		sum.Entities = append(sum.Entities, es)
	}
	return sum
}

// YAML renders the summary as YAML.
func (s Summary) YAML() ([]byte, error) {
	return yaml.Marshal(s)
}

// JSON renders the summary as indented JSON.
func (s Summary) JSON() ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}
