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

package builder

import (
	"dirpx.dev/modelreg/apis"
	"dirpx.dev/modelreg/factory"
	"dirpx.dev/modelreg/kinds"
	"dirpx.dev/modelreg/resolver"
)

// Ext is the extension context understood by the default builder. A bare
// *kinds.Table or []apis.Strategy is accepted as shorthand.
type Ext struct {
	// Kinds replaces the default kind table of every factory.
	Kinds *kinds.Table
	// Strategies replaces the default precedence tiers, in order.
	Strategies []apis.Strategy
}

// New creates and returns a new instance of an apis.Builder.
func New() apis.Builder {
	return &builder{}
}

// builder is an empty struct to be used as a receiver for builder methods.
type builder struct{}

// BuildResolver builds a resolver over u. Without strategies in ext it
// uses the standard tiers: custom, override, shared, smart defaults.
// The previous resolver holds no state worth carrying over.
func (b *builder) BuildResolver(cfg apis.Config, u apis.Universe, _ apis.Resolver, ext any) apis.Resolver {
	if e := extOf(ext); len(e.Strategies) > 0 {
		return resolver.New(cfg, u, e.Strategies...)
	}
	return resolver.NewDefault(cfg, u)
}

// BuildFactories builds one factory per surface over the kind table in ext,
// or the default table. Factories of prev whose surface is missing from the
// new set are kept.
func (b *builder) BuildFactories(_ apis.Config, prev apis.FactorySet, ext any) apis.FactorySet {
	set := factory.Defaults(extOf(ext).Kinds)
	for s, f := range prev {
		if _, ok := set[s]; !ok && f != nil {
			set[s] = f
		}
	}
	return set
}

func extOf(ext any) Ext {
	switch v := ext.(type) {
	case Ext:
		return v
	case *Ext:
		if v != nil {
			return *v
		}
	case *kinds.Table:
		return Ext{Kinds: v}
	case []apis.Strategy:
		return Ext{Strategies: v}
	}
	return Ext{}
}
