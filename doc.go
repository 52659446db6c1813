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

// Package modelreg is a process-wide registry of model configurations.
//
// A model configuration declares, once, which fields of an entity type are
// shown on each generation surface: forms, tables, filters, serializers,
// bulk import/export resources and administrative list views. The registry
// resolves those declarations into concrete field lists and lazily generates
// one component (artifact) per surface, caching it for the life of the
// configuration.
//
// # Registering
//
// Registration is explicit and happens in two steps: build a
// model.Configuration, then record it.
//
//	post := descriptor.MustNew(apis.Identity{Namespace: "blog", Name: "Post"},
//		[]*descriptor.Field{
//			descriptor.ID(),
//			descriptor.String("title"),
//			descriptor.Text("body"),
//			descriptor.ForeignKey("author", apis.Identity{Namespace: "auth", Name: "User"}),
//		})
//
//	var postModel = modelreg.MustRegister(model.MustNew(post,
//		model.WithFields("title", "body"),
//		model.WithSurfaceFields(apis.SurfaceTable, "title", "author__name"),
//	))
//
// A second registration for the same identity fails with a
// DuplicateRegistrationError naming both call sites.
//
// # Field precedence
//
// For every surface the field list comes from the first tier that applies:
//
//  1. a custom artifact supplied with model.WithCustom (no resolution),
//  2. a surface override (model.WithSurfaceFields),
//  3. the shared field list (model.WithFields),
//  4. smart defaults: the entity's fields in declaration order, minus
//     excluded and auto-excluded ones (primary keys, timestamps, reverse
//     relations and the like).
//
// Field names are validated on first access, not at registration. Unknown
// names fail with a FieldValidationError that carries a "did you mean"
// suggestion; relation paths such as "author__name" are walked through the
// universe and fail with a FieldResolutionError naming the broken segment.
//
// # Lookups
//
// Lookup accepts an apis.Identity, a descriptor, a configuration, a
// reflect.Type or a "namespace.TypeName" string. Strings are checked
// against the universe of known entity types; type names match
// case-insensitively.
//
// # Global state
//
// The package keeps a read-mostly snapshot of config, universe, resolver,
// factories, builder and registry behind an atomic pointer. Reads are
// lock-free. Writers (SetConfig, SetUniverse, SetBuilder, SetExt,
// SetRegistry, SetResolver, SetAll) take a build mutex, rebuild the layers
// that are not pinned and publish a new snapshot. Existing registrations
// are carried over to a rebuilt registry and rebound to the new resolver
// and factories.
//
// SetRegistry and SetResolver pin the layer they install. A pinned layer is
// kept as is until UnpinRegistry or UnpinResolver is called. Installing a
// registry replaces the previous one together with its registrations.
//
// The ext value is passed to the builder on every rebuild. The default
// builder understands builder.Ext, a *kinds.Table (extra field kinds) and a
// []apis.Strategy (replacement precedence tiers).
//
// Tests can use SetAll to get a clean, deterministic snapshot.
package modelreg
